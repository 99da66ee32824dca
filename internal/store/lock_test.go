package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/propinspect/inspection-planner/internal/config"
	st "github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

var _ = Describe("person date lock", Ordered, func() {
	var store st.Store

	BeforeAll(func() {
		db, err := st.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		store = st.NewStore(db)
		Expect(store.InitialMigration(context.TODO())).To(BeNil())
	})

	AfterAll(func() {
		store.Close()
	})

	It("requires a transaction", func() {
		_, err := store.Lock().AcquirePersonDate(context.TODO(), st.PersonDateKey{PersonID: uuid.New(), Date: model.NewDate(2024, 5, 1)})
		Expect(err).To(Equal(st.ErrNoTransaction))
	})

	It("is released when the transaction ends", func() {
		key := st.PersonDateKey{PersonID: uuid.New(), Date: model.NewDate(2024, 5, 1)}

		ctx, err := store.NewTransactionContext(context.TODO())
		Expect(err).To(BeNil())
		_, err = store.Lock().AcquirePersonDate(ctx, key, key)
		Expect(err).To(BeNil())
		_, err = store.Rollback(ctx)
		Expect(err).To(BeNil())

		ctx, err = store.NewTransactionContext(context.TODO())
		Expect(err).To(BeNil())
		_, err = store.Lock().AcquirePersonDate(ctx, key)
		Expect(err).To(BeNil())
		_, err = store.Commit(ctx)
		Expect(err).To(BeNil())
	})

	It("serializes concurrent holders of the same key", func() {
		key := st.PersonDateKey{PersonID: uuid.New(), Date: model.NewDate(2024, 5, 2)}

		var (
			wg      sync.WaitGroup
			holders int32
			maxSeen int32
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				ctx, err := store.NewTransactionContext(context.TODO())
				Expect(err).To(BeNil())
				_, err = store.Lock().AcquirePersonDate(ctx, key)
				Expect(err).To(BeNil())

				n := atomic.AddInt32(&holders, 1)
				for {
					m := atomic.LoadInt32(&maxSeen)
					if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&holders, -1)

				_, err = store.Commit(ctx)
				Expect(err).To(BeNil())
			}()
		}
		wg.Wait()
		Expect(maxSeen).To(BeNumerically("==", 1))
	})
})
