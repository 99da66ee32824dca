package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	InspectionScheduledKind     string = "inspection.planner.inspection.scheduled"
	InspectionReassignedKind    string = "inspection.planner.inspection.reassigned"
	InspectionStatusChangedKind string = "inspection.planner.inspection.status_changed"
)

// InspectionEvent describes the state of an inspection right after a
// committed change.
type InspectionEvent struct {
	InspectionID   uuid.UUID  `json:"inspection_id"`
	PropertyID     uint       `json:"property_id"`
	ScheduledDate  string     `json:"scheduled_date"`
	Status         string     `json:"status"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	SupervisorID   *uuid.UUID `json:"supervisor_id,omitempty"`
	InspectorID    *uuid.UUID `json:"inspector_id,omitempty"`
	Actor          string     `json:"actor,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}
