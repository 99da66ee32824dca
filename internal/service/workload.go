package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"github.com/propinspect/inspection-planner/pkg/log"
)

const trendWindowDays = 7

// WorkloadSnapshot is computed from the store on every call and never cached.
type WorkloadSnapshot struct {
	PersonID      uuid.UUID  `json:"person_id"`
	Role          model.Role `json:"role"`
	Date          model.Date `json:"date"`
	Pending       int64      `json:"pending"`
	InProgress    int64      `json:"in_progress"`
	Active        int64      `json:"active"`
	Capacity      int        `json:"capacity"`
	Remaining     int64      `json:"remaining"`
	Today         int64      `json:"today"`
	NextSevenDays int64      `json:"next_seven_days"`
}

type WorkloadService struct {
	store    store.Store
	capacity CapacityPolicy
	calendar calendar
	logger   *log.StructuredLogger
}

func NewWorkloadService(store store.Store, cfg *config.SchedulingConfig, opts ...Option) *WorkloadService {
	o := newOptions(opts...)
	return &WorkloadService{
		store:    store,
		capacity: NewCapacityPolicy(cfg),
		calendar: newCalendar(cfg, o),
		logger:   log.NewDebugLogger("workload_service"),
	}
}

func (w *WorkloadService) Capacity() CapacityPolicy {
	return w.capacity
}

func (w *WorkloadService) Today() model.Date {
	return w.calendar.Today()
}

// Workload returns the snapshot of personID on date, or on today when date
// is nil.
func (w *WorkloadService) Workload(ctx context.Context, personID uuid.UUID, date *model.Date) (*WorkloadSnapshot, error) {
	day := w.Today()
	if date != nil {
		day = *date
	}

	tracer := w.logger.WithContext(ctx).
		Operation("workload").
		WithUUID("person_id", personID).
		WithStringer("date", day).
		Build()

	person, err := w.store.Person().Get(ctx, personID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrResourceNotFound(personID, "person")
		}
		tracer.Error(err).Log()
		return nil, classifyStoreError(err)
	}

	snapshot, err := w.snapshot(ctx, *person, day)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	tracer.Success().WithInt64("active", snapshot.Active).Log()
	return &snapshot, nil
}

func (w *WorkloadService) snapshot(ctx context.Context, person model.Person, day model.Date) (WorkloadSnapshot, error) {
	byStatus, err := w.store.Inspection().CountByStatus(ctx,
		store.NewInspectionQueryFilter().ByPerson(person.ID).OnDate(day).WithStatus(model.ActiveStatuses...))
	if err != nil {
		return WorkloadSnapshot{}, classifyStoreError(err)
	}

	today := w.Today()
	todayCount, err := w.store.Inspection().Count(ctx,
		store.NewInspectionQueryFilter().ByPerson(person.ID).OnDate(today).WithStatus(model.ActiveStatuses...))
	if err != nil {
		return WorkloadSnapshot{}, classifyStoreError(err)
	}

	weekCount, err := w.store.Inspection().Count(ctx,
		store.NewInspectionQueryFilter().ByPerson(person.ID).InWindow(today, today.AddDays(trendWindowDays)).WithStatus(model.ActiveStatuses...))
	if err != nil {
		return WorkloadSnapshot{}, classifyStoreError(err)
	}

	pending := byStatus[model.InspectionStatusPending]
	inProgress := byStatus[model.InspectionStatusInProgress]
	active := pending + inProgress

	return WorkloadSnapshot{
		PersonID:      person.ID,
		Role:          person.Role,
		Date:          day,
		Pending:       pending,
		InProgress:    inProgress,
		Active:        active,
		Capacity:      w.capacity.For(person.Role),
		Remaining:     w.capacity.Remaining(person.Role, active),
		Today:         todayCount,
		NextSevenDays: weekCount,
	}, nil
}

// activeCount is the capacity relevant count of personID on day, skipping
// the inspections in exclude.
func (w *WorkloadService) activeCount(ctx context.Context, personID uuid.UUID, day model.Date, exclude ...uuid.UUID) (int64, error) {
	filter := store.NewInspectionQueryFilter().ByPerson(personID).OnDate(day).WithStatus(model.ActiveStatuses...)
	for _, id := range exclude {
		filter = filter.ExcludeID(id)
	}
	count, err := w.store.Inspection().Count(ctx, filter)
	if err != nil {
		return 0, classifyStoreError(err)
	}
	return count, nil
}
