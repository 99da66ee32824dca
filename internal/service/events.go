package service

import (
	"context"

	"github.com/propinspect/inspection-planner/internal/events"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

type EventPublisher interface {
	Publish(ctx context.Context, kind string, payload any) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

// publish is called once the change is committed. A failure to publish does
// not undo the change.
func (a *AssignmentService) publish(ctx context.Context, kind string, inspection *model.Inspection, previous model.InspectionStatus, actor string) {
	event := events.InspectionEvent{
		InspectionID:   inspection.ID,
		PropertyID:     inspection.PropertyID,
		ScheduledDate:  inspection.ScheduledDate.String(),
		Status:         string(inspection.Status),
		PreviousStatus: string(previous),
		SupervisorID:   inspection.SupervisorID,
		InspectorID:    inspection.InspectorID,
		Actor:          actor,
		OccurredAt:     a.clock(),
	}

	if err := a.events.Publish(ctx, kind, event); err != nil {
		a.logger.WithContext(ctx).
			Operation("publish_event").
			WithString("kind", kind).
			WithUUID("inspection_id", inspection.ID).
			Build().
			Warn(err).
			Log()
	}
}
