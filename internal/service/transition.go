package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/events"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"github.com/propinspect/inspection-planner/pkg/metrics"
	funk "github.com/thoas/go-funk"
)

// transitions is the inspection state machine. Completed and cancelled are
// terminal.
var transitions = map[model.InspectionStatus][]model.InspectionStatus{
	model.InspectionStatusPending:    {model.InspectionStatusInProgress, model.InspectionStatusCancelled},
	model.InspectionStatusInProgress: {model.InspectionStatusCompleted, model.InspectionStatusCancelled},
}

func CanTransition(from, to model.InspectionStatus) bool {
	return funk.Contains(transitions[from], to)
}

func (a *AssignmentService) Transition(ctx context.Context, id uuid.UUID, status model.InspectionStatus) (inspection *model.Inspection, err error) {
	tracer := a.logger.WithContext(ctx).
		Operation("transition_inspection").
		WithUUID("inspection_id", id).
		WithString("status", string(status)).
		Build()

	defer func() {
		metrics.ObserveOperation("transition", outcome(err))
		if err != nil {
			tracer.Error(err).Log()
		}
	}()

	if !funk.ContainsString(model.InspectionStatuses, string(status)) {
		return nil, NewErrInvalidInput("unknown status %q", status)
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

	if !CanTransition(current.Status, status) {
		return nil, NewErrInvalidTransition(id, current.Status, status)
	}

	if err := a.store.Inspection().UpdateStatus(txCtx, id, status); err != nil {
		return nil, classifyStoreError(err)
	}

	if _, err := a.store.Commit(txCtx); err != nil {
		return nil, classifyStoreError(err)
	}

	tracer.Success().WithString("from", string(current.Status)).Log()
	updated, err := a.GetInspection(ctx, id)
	if err != nil {
		return nil, err
	}
	a.publish(ctx, events.InspectionStatusChangedKind, updated, current.Status, "")
	return updated, nil
}
