package mappers

import (
	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

func PersonToApi(p model.Person) api.Person {
	return api.Person{
		ID:              p.ID,
		Role:            string(p.Role),
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Specialization:  p.Specialization,
		Availability:    string(p.Availability),
		HourlyRate:      p.HourlyRate.StringFixed(2),
		ExperienceYears: p.ExperienceYears,
	}
}

func WorkloadToApi(w service.WorkloadSnapshot) api.Workload {
	return api.Workload{
		PersonID:      w.PersonID,
		Role:          string(w.Role),
		Date:          w.Date.String(),
		Pending:       w.Pending,
		InProgress:    w.InProgress,
		Active:        w.Active,
		Capacity:      w.Capacity,
		Remaining:     w.Remaining,
		Today:         w.Today,
		NextSevenDays: w.NextSevenDays,
	}
}

// CandidateListToApi never returns nil so that an empty result renders as [].
func CandidateListToApi(candidates []service.Candidate) []api.Candidate {
	list := make([]api.Candidate, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, api.Candidate{
			Person:   PersonToApi(c.Person),
			Workload: WorkloadToApi(c.Workload),
		})
	}
	return list
}

func InspectionToApi(i model.Inspection) api.Inspection {
	inspection := api.Inspection{
		ID:              i.ID,
		PropertyID:      i.PropertyID,
		SupervisorID:    i.SupervisorID,
		InspectorID:     i.InspectorID,
		ScheduledDate:   i.ScheduledDate.String(),
		InspectionType:  string(i.InspectionType),
		Status:          string(i.Status),
		Notes:           i.Notes,
		CreatedBy:       i.CreatedBy,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
		StatusChangedAt: i.StatusChangedAt,
	}

	for _, a := range i.Assignments {
		inspection.Assignments = append(inspection.Assignments, api.Assignment{
			PersonID:   a.PersonID,
			Role:       string(a.Role),
			Date:       a.ScheduledDate.String(),
			AssignedBy: a.AssignedBy,
			AssignedAt: a.AssignedAt,
			ReleasedAt: a.ReleasedAt,
		})
	}

	return inspection
}

func InspectionListToApi(inspections model.InspectionList) []api.Inspection {
	list := make([]api.Inspection, 0, len(inspections))
	for _, i := range inspections {
		list = append(list, InspectionToApi(i))
	}
	return list
}

func CapacityConflictToApi(err *service.ErrCapacityExceeded) api.CapacityConflict {
	return api.CapacityConflict{
		Party:    string(err.Party),
		PersonID: err.PersonID,
		Date:     err.Date.String(),
		Active:   err.Active,
		Capacity: err.Capacity,
	}
}

func PartialFailureToApi(err *service.ErrPartialAssignmentFailure) api.StoreFailure {
	id := err.InspectionID
	compensated := err.Compensated
	return api.StoreFailure{
		Kind:         api.StoreFailurePartial,
		InspectionID: &id,
		Compensated:  &compensated,
	}
}
