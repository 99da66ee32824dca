package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store"
)

// lostCommitStore commits and then reports the commit as failed.
type lostCommitStore struct {
	store.Store
}

func (l *lostCommitStore) Commit(ctx context.Context) (context.Context, error) {
	if _, err := l.Store.Commit(ctx); err != nil {
		return ctx, err
	}
	return ctx, errors.New("connection reset by peer")
}

var _ = Describe("store failures", Ordered, func() {
	var (
		ts         *testServer
		supervisor uuid.UUID
	)

	request := func() api.ScheduleInspectionRequest {
		return api.ScheduleInspectionRequest{
			PropertyID:     7,
			ScheduledDate:  "2024-05-01",
			InspectionType: "routine",
			SupervisorID:   supervisor.String(),
		}
	}

	storeFailure := func(env envelope) api.StoreFailure {
		var failure api.StoreFailure
		Expect(json.Unmarshal(env.Data, &failure)).To(Succeed())
		return failure
	}

	AfterEach(func() {
		ts.cleanup()
		ts.s.Close()
	})

	It("answers 500 with the partial failure when the commit outcome is unknown", func() {
		ts = newTestServerWith(config.NewDefault(), func(s store.Store) store.Store {
			return &lostCommitStore{Store: s}
		})
		ts.insertProperty(7)
		supervisor = ts.insertPerson("supervisor", "Sam", "available")

		code, env := ts.do(http.MethodPost, "/api/v1/inspections", request())
		Expect(code).To(Equal(http.StatusInternalServerError))
		Expect(env.Success).To(BeFalse())

		failure := storeFailure(env)
		Expect(failure.Kind).To(Equal(api.StoreFailurePartial))
		Expect(failure.InspectionID).NotTo(BeNil())
		Expect(*failure.Compensated).To(BeTrue())
	})

	It("answers 500 with the timeout kind when the store does not respond in time", func() {
		cfg := config.NewDefault()
		cfg.Scheduling.StoreTimeout = 100 * time.Millisecond
		ts = newTestServerWith(cfg, nil)
		ts.insertProperty(7)
		supervisor = ts.insertPerson("supervisor", "Sam", "available")

		// the sqlite pool has a single connection
		holder, err := ts.s.NewTransactionContext(context.TODO())
		Expect(err).To(BeNil())

		code, env := ts.do(http.MethodPost, "/api/v1/inspections", request())

		_, err = ts.s.Rollback(holder)
		Expect(err).To(BeNil())

		Expect(code).To(Equal(http.StatusInternalServerError))
		Expect(env.Msg).To(Equal("record store timed out"))
		Expect(storeFailure(env).Kind).To(Equal(api.StoreFailureTimeout))
	})
})
