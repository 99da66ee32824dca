package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/propinspect/inspection-planner/internal/config"
	st "github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
)

var _ = Describe("inspection store", Ordered, func() {
	var (
		store      st.Store
		gormDB     *gorm.DB
		supervisor *model.Person
		inspector  *model.Person
		property   *model.Property
		day        = model.NewDate(2024, 5, 1)
	)

	BeforeAll(func() {
		db, err := st.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		gormDB = db
		store = st.NewStore(db)
		Expect(store.InitialMigration(context.TODO())).To(BeNil())
	})

	AfterAll(func() {
		store.Close()
	})

	BeforeEach(func() {
		var err error
		supervisor, err = store.Person().Create(context.TODO(), model.Person{Role: model.RoleSupervisor, Name: "sup"})
		Expect(err).To(BeNil())
		inspector, err = store.Person().Create(context.TODO(), model.Person{Role: model.RoleInspector, Name: "insp"})
		Expect(err).To(BeNil())
		property, err = store.Property().Create(context.TODO(), model.Property{Name: "tower"})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		gormDB.Exec("DELETE from assignments;")
		gormDB.Exec("DELETE from inspections;")
		gormDB.Exec("DELETE from persons;")
		gormDB.Exec("DELETE from properties;")
	})

	newInspection := func(date model.Date, status model.InspectionStatus) *model.Inspection {
		i, err := store.Inspection().Create(context.TODO(), model.Inspection{
			PropertyID:     property.ID,
			SupervisorID:   &supervisor.ID,
			InspectorID:    &inspector.ID,
			ScheduledDate:  date,
			InspectionType: model.InspectionTypeRoutine,
			Status:         status,
		})
		Expect(err).To(BeNil())
		return i
	}

	Context("create and get", func() {
		It("defaults the status to pending", func() {
			i, err := store.Inspection().Create(context.TODO(), model.Inspection{
				PropertyID:     property.ID,
				ScheduledDate:  day,
				InspectionType: model.InspectionTypeSafety,
			})
			Expect(err).To(BeNil())
			Expect(i.Status).To(Equal(model.InspectionStatusPending))

			got, err := store.Inspection().Get(context.TODO(), i.ID)
			Expect(err).To(BeNil())
			Expect(got.ScheduledDate).To(Equal(day))
			Expect(got.SupervisorID).To(BeNil())
		})

		It("preloads the assignment history", func() {
			i := newInspection(day, model.InspectionStatusPending)
			_, err := store.Assignment().Bind(context.TODO(), model.Assignment{InspectionID: i.ID, PersonID: supervisor.ID, Role: model.RoleSupervisor, ScheduledDate: day})
			Expect(err).To(BeNil())
			_, err = store.Assignment().Bind(context.TODO(), model.Assignment{InspectionID: i.ID, PersonID: inspector.ID, Role: model.RoleInspector, ScheduledDate: day})
			Expect(err).To(BeNil())

			got, err := store.Inspection().Get(context.TODO(), i.ID)
			Expect(err).To(BeNil())
			Expect(got.Assignments).To(HaveLen(2))
			Expect(got.Assignments[0].IsCurrent()).To(BeTrue())
		})

		It("returns not found", func() {
			_, err := store.Inspection().Get(context.TODO(), uuid.New())
			Expect(err).To(Equal(st.ErrRecordNotFound))
			_, err = store.Inspection().GetForUpdate(context.TODO(), uuid.New())
			Expect(err).To(Equal(st.ErrRecordNotFound))
		})
	})

	Context("counting", func() {
		It("counts active inspections of a person on a day", func() {
			newInspection(day, model.InspectionStatusPending)
			newInspection(day, model.InspectionStatusInProgress)
			newInspection(day, model.InspectionStatusCompleted)
			newInspection(day.AddDays(1), model.InspectionStatusPending)

			filter := st.NewInspectionQueryFilter().ByPerson(supervisor.ID).OnDate(day).WithStatus(model.ActiveStatuses...)
			count, err := store.Inspection().Count(context.TODO(), filter)
			Expect(err).To(BeNil())
			Expect(count).To(BeNumerically("==", 2))

			byStatus, err := store.Inspection().CountByStatus(context.TODO(), st.NewInspectionQueryFilter().ByPerson(inspector.ID).OnDate(day))
			Expect(err).To(BeNil())
			Expect(byStatus[model.InspectionStatusPending]).To(BeNumerically("==", 1))
			Expect(byStatus[model.InspectionStatusInProgress]).To(BeNumerically("==", 1))
			Expect(byStatus[model.InspectionStatusCompleted]).To(BeNumerically("==", 1))
		})

		It("counts a window of days", func() {
			newInspection(day, model.InspectionStatusPending)
			newInspection(day.AddDays(6), model.InspectionStatusPending)
			newInspection(day.AddDays(7), model.InspectionStatusPending)

			count, err := store.Inspection().Count(context.TODO(), st.NewInspectionQueryFilter().ByPerson(inspector.ID).InWindow(day, day.AddDays(7)))
			Expect(err).To(BeNil())
			Expect(count).To(BeNumerically("==", 2))
		})
	})

	Context("updates", func() {
		It("updates status", func() {
			i := newInspection(day, model.InspectionStatusPending)
			Expect(store.Inspection().UpdateStatus(context.TODO(), i.ID, model.InspectionStatusInProgress)).To(BeNil())

			got, err := store.Inspection().Get(context.TODO(), i.ID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal(model.InspectionStatusInProgress))
			Expect(got.StatusChangedAt).ToNot(BeNil())
		})

		It("updates assignment and releases history", func() {
			i := newInspection(day, model.InspectionStatusPending)
			_, err := store.Assignment().Bind(context.TODO(), model.Assignment{InspectionID: i.ID, PersonID: inspector.ID, Role: model.RoleInspector, ScheduledDate: day})
			Expect(err).To(BeNil())

			other, err := store.Person().Create(context.TODO(), model.Person{Role: model.RoleInspector, Name: "other"})
			Expect(err).To(BeNil())

			released, err := store.Assignment().Release(context.TODO(), i.ID, model.RoleInspector)
			Expect(err).To(BeNil())
			Expect(released).To(BeNumerically("==", 1))

			i.InspectorID = &other.ID
			Expect(store.Inspection().UpdateAssignment(context.TODO(), *i)).To(BeNil())

			got, err := store.Inspection().Get(context.TODO(), i.ID)
			Expect(err).To(BeNil())
			Expect(*got.InspectorID).To(Equal(other.ID))

			current, err := store.Assignment().ListByPerson(context.TODO(), inspector.ID, true)
			Expect(err).To(BeNil())
			Expect(current).To(BeEmpty())

			all, err := store.Assignment().ListByPerson(context.TODO(), inspector.ID, false)
			Expect(err).To(BeNil())
			Expect(all).To(HaveLen(1))
		})

		It("deletes inspection with assignments", func() {
			i := newInspection(day, model.InspectionStatusPending)
			_, err := store.Assignment().Bind(context.TODO(), model.Assignment{InspectionID: i.ID, PersonID: inspector.ID, Role: model.RoleInspector, ScheduledDate: day})
			Expect(err).To(BeNil())

			Expect(store.Assignment().DeleteByInspection(context.TODO(), i.ID)).To(BeNil())
			Expect(store.Inspection().Delete(context.TODO(), i.ID)).To(BeNil())

			count := 0
			Expect(gormDB.Raw("SELECT COUNT(*) from assignments;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))

			Expect(store.Inspection().Delete(context.TODO(), i.ID)).To(Equal(st.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("sorts and paginates", func() {
			newInspection(day.AddDays(2), model.InspectionStatusPending)
			newInspection(day, model.InspectionStatusPending)
			newInspection(day.AddDays(1), model.InspectionStatusCancelled)

			list, err := store.Inspection().List(context.TODO(), st.NewInspectionQueryFilter().BySupervisor(supervisor.ID), st.NewInspectionQueryOptions().WithSortOrder(st.SortByScheduledDate))
			Expect(err).To(BeNil())
			Expect(list).To(HaveLen(3))
			Expect(list[0].ScheduledDate).To(Equal(day))
			Expect(list[2].ScheduledDate).To(Equal(day.AddDays(2)))

			list, err = store.Inspection().List(context.TODO(), st.NewInspectionQueryFilter().WithStatus(model.InspectionStatusCancelled), nil)
			Expect(err).To(BeNil())
			Expect(list).To(HaveLen(1))

			list, err = store.Inspection().List(context.TODO(), nil, st.NewInspectionQueryOptions().WithSortOrder(st.SortByScheduledDate).WithLimit(1).WithOffset(1))
			Expect(err).To(BeNil())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ScheduledDate).To(Equal(day.AddDays(1)))
		})
	})
})
