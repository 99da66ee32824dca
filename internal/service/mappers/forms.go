package mappers

import (
	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

// ScheduleForm is the input of ScheduleInspection. The supervisor is
// mandatory, the inspector optional.
type ScheduleForm struct {
	PropertyID     uint
	ScheduledDate  model.Date
	InspectionType model.InspectionType
	SupervisorID   uuid.UUID
	InspectorID    *uuid.UUID
	Notes          string
	CreatedBy      string
}

func (f ScheduleForm) ToModel() model.Inspection {
	supervisorID := f.SupervisorID
	return model.Inspection{
		ID:             uuid.New(),
		PropertyID:     f.PropertyID,
		SupervisorID:   &supervisorID,
		InspectorID:    f.InspectorID,
		ScheduledDate:  f.ScheduledDate,
		InspectionType: f.InspectionType,
		Status:         model.InspectionStatusPending,
		Notes:          f.Notes,
		CreatedBy:      f.CreatedBy,
	}
}

// Assignees returns the persons to bind keyed by the role they take.
func (f ScheduleForm) Assignees() map[model.Role]uuid.UUID {
	assignees := map[model.Role]uuid.UUID{model.RoleSupervisor: f.SupervisorID}
	if f.InspectorID != nil {
		assignees[model.RoleInspector] = *f.InspectorID
	}
	return assignees
}

type ReassignForm struct {
	SupervisorID  *uuid.UUID
	InspectorID   *uuid.UUID
	ScheduledDate *model.Date
	AssignedBy    string
}

func (f ReassignForm) IsEmpty() bool {
	return f.SupervisorID == nil && f.InspectorID == nil && f.ScheduledDate == nil
}

// InspectionFilter selects inspections for listing.
type InspectionFilter struct {
	PersonID     *uuid.UUID
	SupervisorID *uuid.UUID
	InspectorID  *uuid.UUID
	PropertyID   *uint
	Date         *model.Date
	Statuses     []model.InspectionStatus
	Limit        int
	Offset       int
}

func NewInspectionFilter() *InspectionFilter {
	return &InspectionFilter{}
}

func (f *InspectionFilter) WithPerson(id uuid.UUID) *InspectionFilter {
	f.PersonID = &id
	return f
}

func (f *InspectionFilter) WithSupervisor(id uuid.UUID) *InspectionFilter {
	f.SupervisorID = &id
	return f
}

func (f *InspectionFilter) WithInspector(id uuid.UUID) *InspectionFilter {
	f.InspectorID = &id
	return f
}

func (f *InspectionFilter) WithProperty(id uint) *InspectionFilter {
	f.PropertyID = &id
	return f
}

func (f *InspectionFilter) WithDate(date model.Date) *InspectionFilter {
	f.Date = &date
	return f
}

func (f *InspectionFilter) WithStatus(statuses ...model.InspectionStatus) *InspectionFilter {
	f.Statuses = append(f.Statuses, statuses...)
	return f
}

func (f *InspectionFilter) WithLimit(limit int) *InspectionFilter {
	f.Limit = limit
	return f
}

func (f *InspectionFilter) WithOffset(offset int) *InspectionFilter {
	f.Offset = offset
	return f
}
