package v1

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// Response is the envelope of every reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Msg     string `json:"msg"`

	status int
}

func NewResponse(status int, data any, msg string) *Response {
	return &Response{
		Success: status < http.StatusBadRequest,
		Data:    data,
		Msg:     msg,
		status:  status,
	}
}

func (resp *Response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, resp.status)
	return nil
}

type ScheduleInspectionRequest struct {
	PropertyID     uint    `json:"property_id" validate:"required"`
	ScheduledDate  string  `json:"scheduled_date" validate:"required,date"`
	InspectionType string  `json:"inspection_type" validate:"required,inspection_type"`
	SupervisorID   string  `json:"supervisor_id" validate:"required,person_id"`
	InspectorID    *string `json:"inspector_id,omitempty" validate:"omitempty,person_id"`
	Notes          string  `json:"notes,omitempty" validate:"max=4000"`
}

type ReassignInspectionRequest struct {
	SupervisorID  *string `json:"supervisor_id,omitempty" validate:"omitempty,person_id"`
	InspectorID   *string `json:"inspector_id,omitempty" validate:"omitempty,person_id"`
	ScheduledDate *string `json:"scheduled_date,omitempty" validate:"omitempty,date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,inspection_status"`
}

type DateQuery struct {
	Date string `json:"date" validate:"required,date"`
}

type OptionalDateQuery struct {
	Date string `json:"date" validate:"omitempty,date"`
}

type ListInspectionsQuery struct {
	PersonID     string   `json:"person_id" validate:"omitempty,person_id"`
	SupervisorID string   `json:"supervisor_id" validate:"omitempty,person_id"`
	InspectorID  string   `json:"inspector_id" validate:"omitempty,person_id"`
	PropertyID   uint     `json:"property_id"`
	Date         string   `json:"date" validate:"omitempty,date"`
	Statuses     []string `json:"status" validate:"dive,inspection_status"`
	Limit        int      `json:"limit" validate:"gte=0,lte=500"`
	Offset       int      `json:"offset" validate:"gte=0"`
}

type Person struct {
	ID              uuid.UUID `json:"id"`
	Role            string    `json:"role"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Specialization  string    `json:"specialization,omitempty"`
	Availability    string    `json:"availability"`
	HourlyRate      string    `json:"hourly_rate"`
	ExperienceYears int       `json:"experience_years"`
}

type Workload struct {
	PersonID      uuid.UUID `json:"person_id"`
	Role          string    `json:"role"`
	Date          string    `json:"date"`
	Pending       int64     `json:"pending"`
	InProgress    int64     `json:"in_progress"`
	Active        int64     `json:"active"`
	Capacity      int       `json:"capacity"`
	Remaining     int64     `json:"remaining"`
	Today         int64     `json:"today"`
	NextSevenDays int64     `json:"next_seven_days"`
}

type Candidate struct {
	Person
	Workload Workload `json:"workload"`
}

type Assignment struct {
	PersonID   uuid.UUID  `json:"person_id"`
	Role       string     `json:"role"`
	Date       string     `json:"scheduled_date"`
	AssignedBy string     `json:"assigned_by,omitempty"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

type Inspection struct {
	ID              uuid.UUID    `json:"id"`
	PropertyID      uint         `json:"property_id"`
	SupervisorID    *uuid.UUID   `json:"supervisor_id"`
	InspectorID     *uuid.UUID   `json:"inspector_id"`
	ScheduledDate   string       `json:"scheduled_date"`
	InspectionType  string       `json:"inspection_type"`
	Status          string       `json:"status"`
	Notes           string       `json:"notes,omitempty"`
	CreatedBy       string       `json:"created_by,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       *time.Time   `json:"updated_at,omitempty"`
	StatusChangedAt *time.Time   `json:"status_changed_at,omitempty"`
	Assignments     []Assignment `json:"assignments,omitempty"`
}

// CapacityConflict is the payload of a capacity rejection.
type CapacityConflict struct {
	Party    string    `json:"party"`
	PersonID uuid.UUID `json:"person_id"`
	Date     string    `json:"date"`
	Active   int64     `json:"active"`
	Capacity int       `json:"capacity"`
}

const (
	StoreFailurePartial     = "partial_failure"
	StoreFailureTimeout     = "store_timeout"
	StoreFailureUnavailable = "store_unavailable"
)

// StoreFailure is the payload of a 500 caused by the record store. Kind
// tells a timeout apart from an unavailable store or a partial write.
type StoreFailure struct {
	Kind         string     `json:"kind"`
	InspectionID *uuid.UUID `json:"inspection_id,omitempty"`
	Compensated  *bool      `json:"compensated,omitempty"`
}
