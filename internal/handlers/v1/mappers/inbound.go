package mappers

import (
	"fmt"

	"github.com/google/uuid"
	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/service/mappers"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

// parseOptionalUUID parses an already validated id; nil stays nil.
func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", *s, err)
	}
	return &id, nil
}

func parseOptionalDate(s *string) (*model.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func ScheduleFormApi(req api.ScheduleInspectionRequest, createdBy string) (mappers.ScheduleForm, error) {
	date, err := model.ParseDate(req.ScheduledDate)
	if err != nil {
		return mappers.ScheduleForm{}, err
	}

	supervisorID, err := uuid.Parse(req.SupervisorID)
	if err != nil {
		return mappers.ScheduleForm{}, fmt.Errorf("invalid supervisor id: %w", err)
	}

	inspectorID, err := parseOptionalUUID(req.InspectorID)
	if err != nil {
		return mappers.ScheduleForm{}, err
	}

	return mappers.ScheduleForm{
		PropertyID:     req.PropertyID,
		ScheduledDate:  date,
		InspectionType: model.InspectionType(req.InspectionType),
		SupervisorID:   supervisorID,
		InspectorID:    inspectorID,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
	}, nil
}

func ReassignFormApi(req api.ReassignInspectionRequest, assignedBy string) (mappers.ReassignForm, error) {
	supervisorID, err := parseOptionalUUID(req.SupervisorID)
	if err != nil {
		return mappers.ReassignForm{}, err
	}
	inspectorID, err := parseOptionalUUID(req.InspectorID)
	if err != nil {
		return mappers.ReassignForm{}, err
	}
	date, err := parseOptionalDate(req.ScheduledDate)
	if err != nil {
		return mappers.ReassignForm{}, err
	}

	return mappers.ReassignForm{
		SupervisorID:  supervisorID,
		InspectorID:   inspectorID,
		ScheduledDate: date,
		AssignedBy:    assignedBy,
	}, nil
}

func InspectionFilterApi(query api.ListInspectionsQuery) (*mappers.InspectionFilter, error) {
	filter := mappers.NewInspectionFilter().WithLimit(query.Limit).WithOffset(query.Offset)

	if query.PersonID != "" {
		id, err := uuid.Parse(query.PersonID)
		if err != nil {
			return nil, fmt.Errorf("invalid person id: %w", err)
		}
		filter = filter.WithPerson(id)
	}

	if query.SupervisorID != "" {
		id, err := uuid.Parse(query.SupervisorID)
		if err != nil {
			return nil, fmt.Errorf("invalid supervisor id: %w", err)
		}
		filter = filter.WithSupervisor(id)
	}

	if query.InspectorID != "" {
		id, err := uuid.Parse(query.InspectorID)
		if err != nil {
			return nil, fmt.Errorf("invalid inspector id: %w", err)
		}
		filter = filter.WithInspector(id)
	}

	if query.PropertyID != 0 {
		filter = filter.WithProperty(query.PropertyID)
	}

	date, err := parseOptionalDate(&query.Date)
	if err != nil {
		return nil, err
	}
	if date != nil {
		filter = filter.WithDate(*date)
	}

	for _, s := range query.Statuses {
		filter = filter.WithStatus(model.InspectionStatus(s))
	}

	return filter, nil
}
