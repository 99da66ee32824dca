package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

var _ = Describe("Workload Service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *service.WorkloadService
		day    = model.NewDate(2024, 5, 1)
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())
		svc = service.NewWorkloadService(s, cfg.Scheduling, service.WithClock(clock))
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		cleanup(gormdb)
	})

	Context("Workload", func() {
		It("returns a zeroed snapshot for a person without inspections", func() {
			id := insertPerson(gormdb, "supervisor", "alice", "available")

			snapshot, err := svc.Workload(context.TODO(), id, &day)
			Expect(err).To(BeNil())
			Expect(snapshot.PersonID).To(Equal(id))
			Expect(snapshot.Role).To(Equal(model.RoleSupervisor))
			Expect(snapshot.Date).To(Equal(day))
			Expect(snapshot.Pending).To(BeZero())
			Expect(snapshot.InProgress).To(BeZero())
			Expect(snapshot.Active).To(BeZero())
			Expect(snapshot.Capacity).To(Equal(3))
			Expect(snapshot.Remaining).To(BeNumerically("==", 3))
		})

		It("counts active statuses only", func() {
			sup := insertPerson(gormdb, "supervisor", "alice", "available")
			insp := insertPerson(gormdb, "inspector", "ivan", "available")
			insertProperty(gormdb, 7, "tower")

			insertInspection(gormdb, 7, &sup, &insp, "2024-05-01", "pending")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-01", "in-progress")
			insertInspection(gormdb, 7, &sup, &insp, "2024-05-01", "completed")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-01", "cancelled")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-02", "pending")

			snapshot, err := svc.Workload(context.TODO(), sup, &day)
			Expect(err).To(BeNil())
			Expect(snapshot.Pending).To(BeNumerically("==", 1))
			Expect(snapshot.InProgress).To(BeNumerically("==", 1))
			Expect(snapshot.Active).To(BeNumerically("==", 2))
			Expect(snapshot.Remaining).To(BeNumerically("==", 1))

			snapshot, err = svc.Workload(context.TODO(), insp, &day)
			Expect(err).To(BeNil())
			Expect(snapshot.Role).To(Equal(model.RoleInspector))
			Expect(snapshot.Active).To(BeNumerically("==", 1))
		})

		It("computes the today and next seven days counters", func() {
			sup := insertPerson(gormdb, "supervisor", "alice", "available")
			insertProperty(gormdb, 7, "tower")

			insertInspection(gormdb, 7, &sup, nil, "2024-04-29", "pending")
			insertInspection(gormdb, 7, &sup, nil, "2024-04-30", "pending")
			insertInspection(gormdb, 7, &sup, nil, "2024-04-30", "completed")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-03", "in-progress")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-06", "pending")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-07", "pending")

			snapshot, err := svc.Workload(context.TODO(), sup, nil)
			Expect(err).To(BeNil())
			Expect(snapshot.Date).To(Equal(model.NewDate(2024, 4, 30)))
			Expect(snapshot.Today).To(BeNumerically("==", 1))
			Expect(snapshot.NextSevenDays).To(BeNumerically("==", 3))
		})

		It("returns identical snapshots without intervening writes", func() {
			sup := insertPerson(gormdb, "supervisor", "alice", "available")
			insertProperty(gormdb, 7, "tower")
			insertInspection(gormdb, 7, &sup, nil, "2024-05-01", "pending")

			first, err := svc.Workload(context.TODO(), sup, &day)
			Expect(err).To(BeNil())
			second, err := svc.Workload(context.TODO(), sup, &day)
			Expect(err).To(BeNil())
			Expect(second).To(Equal(first))
		})

		It("fails for an unknown person", func() {
			_, err := svc.Workload(context.TODO(), uuid.New(), &day)
			Expect(err).ToNot(BeNil())

			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})
})
