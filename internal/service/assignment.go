package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/events"
	"github.com/propinspect/inspection-planner/internal/service/mappers"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"github.com/propinspect/inspection-planner/pkg/log"
	"github.com/propinspect/inspection-planner/pkg/metrics"
)

const defaultStoreTimeout = 5 * time.Second

// AssignmentService creates inspections and binds them to personnel. Every
// validate-then-write sequence runs in one transaction holding the
// (person, date) locks of the assignees it touches.
type AssignmentService struct {
	store    store.Store
	workload *WorkloadService
	timeout  time.Duration
	logger   *log.StructuredLogger
	events   EventPublisher
	clock    func() time.Time
}

func NewAssignmentService(store store.Store, workload *WorkloadService, cfg *config.SchedulingConfig, opts ...Option) *AssignmentService {
	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	o := newOptions(opts...)
	return &AssignmentService{
		store:    store,
		workload: workload,
		timeout:  timeout,
		logger:   log.NewDebugLogger("assignment_service"),
		events:   o.publisher,
		clock:    o.clock,
	}
}

func (a *AssignmentService) ScheduleInspection(ctx context.Context, form mappers.ScheduleForm) (inspection *model.Inspection, err error) {
	tracer := a.logger.WithContext(ctx).
		Operation("schedule_inspection").
		WithInt("property_id", int(form.PropertyID)).
		WithStringer("date", form.ScheduledDate).
		WithString("type", string(form.InspectionType)).
		WithUUID("supervisor_id", form.SupervisorID).
		WithUUIDPtr("inspector_id", form.InspectorID).
		Build()

	defer func() {
		metrics.ObserveOperation("schedule", outcome(err))
		if err != nil {
			tracer.Error(err).Log()
		}
	}()

	if err := a.validateDate(form.ScheduledDate); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	txCtx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer func() {
		_, _ = a.store.Rollback(txCtx)
	}()

	// locks come before the first read so every read of the transaction
	// sees what the previous holder committed
	assignees := form.Assignees()
	if err := a.lockAssignees(txCtx, form.ScheduledDate, assignees); err != nil {
		return nil, err
	}
	tracer.Step("assignees_locked").Log()

	if _, err := a.store.Property().Get(txCtx, form.PropertyID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrUnknownReference("property", form.PropertyID)
		}
		return nil, classifyStoreError(err)
	}

	for _, role := range sortedRoles(assignees) {
		if _, err := a.loadAssignee(txCtx, assignees[role], role); err != nil {
			return nil, err
		}
	}
	tracer.Step("assignees_validated").WithInt("count", len(assignees)).Log()

	if err := a.checkCapacity(txCtx, form.ScheduledDate, assignees); err != nil {
		return nil, err
	}
	tracer.Step("capacity_checked").Log()

	created, err := a.store.Inspection().Create(txCtx, form.ToModel())
	if err != nil {
		return nil, classifyStoreError(err)
	}

	bindings, err := a.bind(txCtx, created.ID, form.ScheduledDate, form.CreatedBy, assignees)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	tracer.Step("inspection_created").WithUUID("inspection_id", created.ID).Log()

	if _, err := a.store.Commit(txCtx); err != nil {
		return nil, a.compensate(ctx, created.ID, err)
	}

	created.Assignments = bindings
	tracer.Success().WithUUID("inspection_id", created.ID).Log()
	a.publish(ctx, events.InspectionScheduledKind, created, "", form.CreatedBy)
	return created, nil
}

// Reassign changes the supervisor, the inspector or, while pending, the date
// of an active inspection. Old bindings are released, not deleted.
func (a *AssignmentService) Reassign(ctx context.Context, id uuid.UUID, form mappers.ReassignForm) (inspection *model.Inspection, err error) {
	tracer := a.logger.WithContext(ctx).
		Operation("reassign_inspection").
		WithUUID("inspection_id", id).
		WithUUIDPtr("supervisor_id", form.SupervisorID).
		WithUUIDPtr("inspector_id", form.InspectorID).
		WithBool("reschedule", form.ScheduledDate != nil).
		Build()

	defer func() {
		metrics.ObserveOperation("reassign", outcome(err))
		if err != nil {
			tracer.Error(err).Log()
		}
	}()

	if form.IsEmpty() {
		return nil, NewErrInvalidInput("at least one of supervisor_id, inspector_id or scheduled_date is required")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	txCtx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer func() {
		_, _ = a.store.Rollback(txCtx)
	}()

	current, err := a.store.Inspection().GetForUpdate(txCtx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrInspectionNotFound(id)
		}
		return nil, classifyStoreError(err)
	}

	if current.Status.IsTerminal() {
		return nil, NewErrReassignForbidden(id, current.Status, "inspection is closed")
	}

	date := current.ScheduledDate
	if form.ScheduledDate != nil && !form.ScheduledDate.Equal(current.ScheduledDate) {
		if current.Status != model.InspectionStatusPending {
			return nil, NewErrReassignForbidden(id, current.Status, "the date can only change while pending")
		}
		if err := a.validateDate(*form.ScheduledDate); err != nil {
			return nil, err
		}
		date = *form.ScheduledDate
	}
	dateChanged := !date.Equal(current.ScheduledDate)

	target := map[model.Role]*uuid.UUID{
		model.RoleSupervisor: pick(form.SupervisorID, current.SupervisorID),
		model.RoleInspector:  pick(form.InspectorID, current.InspectorID),
	}
	previous := map[model.Role]*uuid.UUID{
		model.RoleSupervisor: current.SupervisorID,
		model.RoleInspector:  current.InspectorID,
	}

	// only assignees whose binding changes take new capacity
	changed := make(map[model.Role]uuid.UUID)
	for role, personID := range target {
		if personID == nil {
			continue
		}
		if dateChanged || previous[role] == nil || *previous[role] != *personID {
			changed[role] = *personID
		}
	}

	if len(changed) == 0 {
		tracer.Step("nothing_to_change").Log()
		if _, err := a.store.Commit(txCtx); err != nil {
			return nil, classifyStoreError(err)
		}
		return a.GetInspection(ctx, id)
	}

	for _, role := range sortedRoles(changed) {
		if _, err := a.loadAssignee(txCtx, changed[role], role); err != nil {
			return nil, err
		}
	}

	if err := a.lockAssignees(txCtx, date, changed); err != nil {
		return nil, err
	}

	if err := a.checkCapacity(txCtx, date, changed, id); err != nil {
		return nil, err
	}
	tracer.Step("capacity_checked").WithInt("changed", len(changed)).Log()

	for role := range changed {
		if _, err := a.store.Assignment().Release(txCtx, id, role); err != nil {
			return nil, classifyStoreError(err)
		}
	}

	if _, err := a.bind(txCtx, id, date, form.AssignedBy, changed); err != nil {
		return nil, classifyStoreError(err)
	}

	current.SupervisorID = target[model.RoleSupervisor]
	current.InspectorID = target[model.RoleInspector]
	current.ScheduledDate = date
	if err := a.store.Inspection().UpdateAssignment(txCtx, *current); err != nil {
		return nil, classifyStoreError(err)
	}

	if _, err := a.store.Commit(txCtx); err != nil {
		return nil, classifyStoreError(err)
	}

	tracer.Success().WithStringer("date", date).Log()
	updated, err := a.GetInspection(ctx, id)
	if err != nil {
		return nil, err
	}
	a.publish(ctx, events.InspectionReassignedKind, updated, "", form.AssignedBy)
	return updated, nil
}

func (a *AssignmentService) GetInspection(ctx context.Context, id uuid.UUID) (*model.Inspection, error) {
	inspection, err := a.store.Inspection().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrInspectionNotFound(id)
		}
		return nil, classifyStoreError(err)
	}
	return inspection, nil
}

func (a *AssignmentService) ListInspections(ctx context.Context, filter *mappers.InspectionFilter) (model.InspectionList, error) {
	storeFilter := store.NewInspectionQueryFilter()
	opts := store.NewInspectionQueryOptions().WithSortOrder(store.SortByScheduledDate)

	if filter != nil {
		if filter.PersonID != nil {
			storeFilter = storeFilter.ByPerson(*filter.PersonID)
		}
		if filter.SupervisorID != nil {
			storeFilter = storeFilter.BySupervisor(*filter.SupervisorID)
		}
		if filter.InspectorID != nil {
			storeFilter = storeFilter.ByInspector(*filter.InspectorID)
		}
		if filter.PropertyID != nil {
			storeFilter = storeFilter.ByProperty(*filter.PropertyID)
		}
		if filter.Date != nil {
			storeFilter = storeFilter.OnDate(*filter.Date)
		}
		if len(filter.Statuses) > 0 {
			storeFilter = storeFilter.WithStatus(filter.Statuses...)
		}
		if filter.Limit > 0 {
			opts = opts.WithLimit(filter.Limit)
		}
		if filter.Offset > 0 {
			opts = opts.WithOffset(filter.Offset)
		}
	}

	inspections, err := a.store.Inspection().List(ctx, storeFilter, opts)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return inspections, nil
}

func (a *AssignmentService) validateDate(date model.Date) error {
	if date.IsZero() {
		return NewErrInvalidDate(date, "date is required")
	}
	if date.Before(a.workload.Today()) {
		return NewErrInvalidDate(date, "date is in the past")
	}
	return nil
}

// loadAssignee fetches the person and checks the role and the availability
// flag. Unavailable persons are refused here even if the caller skipped the
// availability query.
func (a *AssignmentService) loadAssignee(ctx context.Context, id uuid.UUID, role model.Role) (*model.Person, error) {
	person, err := a.store.Person().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrUnknownReference(string(role), id)
		}
		return nil, classifyStoreError(err)
	}
	if person.Role != role {
		return nil, NewErrInvalidInput("person %s is a %s, not a %s", id, person.Role, role)
	}
	if person.IsUnavailable() {
		return nil, NewErrPersonUnavailable(*person)
	}
	return person, nil
}

func (a *AssignmentService) lockAssignees(ctx context.Context, date model.Date, assignees map[model.Role]uuid.UUID) error {
	keys := make([]store.PersonDateKey, 0, len(assignees))
	for _, id := range assignees {
		keys = append(keys, store.PersonDateKey{PersonID: id, Date: date})
	}

	waited, err := a.store.Lock().AcquirePersonDate(ctx, keys...)
	metrics.ObserveLockWait(waited.Seconds())
	if err != nil {
		return classifyStoreError(err)
	}
	return nil
}

// checkCapacity must run while holding the (person, date) locks.
func (a *AssignmentService) checkCapacity(ctx context.Context, date model.Date, assignees map[model.Role]uuid.UUID, exclude ...uuid.UUID) error {
	for _, role := range sortedRoles(assignees) {
		id := assignees[role]
		active, err := a.workload.activeCount(ctx, id, date, exclude...)
		if err != nil {
			return err
		}
		if !a.workload.capacity.HasRoom(role, active) {
			metrics.IncreaseCapacityRejections(string(role))
			return NewErrCapacityExceeded(role, id, date, active, a.workload.capacity.For(role))
		}
	}
	return nil
}

func (a *AssignmentService) bind(ctx context.Context, inspectionID uuid.UUID, date model.Date, assignedBy string, assignees map[model.Role]uuid.UUID) ([]model.Assignment, error) {
	now := time.Now()
	bindings := make([]model.Assignment, 0, len(assignees))
	for _, role := range sortedRoles(assignees) {
		binding, err := a.store.Assignment().Bind(ctx, model.Assignment{
			InspectionID:  inspectionID,
			PersonID:      assignees[role],
			Role:          role,
			ScheduledDate: date,
			AssignedBy:    assignedBy,
			AssignedAt:    now,
		})
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, *binding)
	}
	return bindings, nil
}

// compensate runs after a failed commit. The outcome of the commit is
// unknown, so the inspection is looked up with a fresh context: if it is
// visible it is removed and the failure is reported as partial.
func (a *AssignmentService) compensate(ctx context.Context, id uuid.UUID, commitErr error) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	_, err := a.store.Inspection().Get(cctx, id)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return classifyStoreError(commitErr)
	case err != nil:
		return NewErrPartialAssignmentFailure(id, commitErr, err)
	}

	tracer := a.logger.WithContext(ctx).Operation("compensate_schedule").WithUUID("inspection_id", id).Build()
	tracer.Step("removing_inspection").Log()

	if err := a.store.Assignment().DeleteByInspection(cctx, id); err != nil {
		return NewErrPartialAssignmentFailure(id, commitErr, err)
	}
	if err := a.store.Inspection().Delete(cctx, id); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return NewErrPartialAssignmentFailure(id, commitErr, err)
	}
	return NewErrPartialAssignmentFailure(id, commitErr, nil)
}

func pick(override, current *uuid.UUID) *uuid.UUID {
	if override != nil {
		return override
	}
	return current
}

func sortedRoles(assignees map[model.Role]uuid.UUID) []model.Role {
	roles := make([]model.Role, 0, len(assignees))
	for role := range assignees {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		// supervisor is checked first
		return roles[i] > roles[j]
	})
	return roles
}
