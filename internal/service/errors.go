package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

type ErrInvalidInput struct {
	error
}

func NewErrInvalidInput(format string, args ...any) *ErrInvalidInput {
	return &ErrInvalidInput{fmt.Errorf(format, args...)}
}

func NewErrInvalidDate(date model.Date, reason string) *ErrInvalidInput {
	return &ErrInvalidInput{fmt.Errorf("invalid date %s: %s", date, reason)}
}

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id any, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %v not found", resourceType, id)}
}

func NewErrPersonNotFound(id uuid.UUID, role model.Role) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, string(role))
}

func NewErrInspectionNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "inspection")
}

// NewErrUnknownReference reports a request that points at a property or a
// person that does not exist.
func NewErrUnknownReference(resourceType string, id any) *ErrInvalidInput {
	return &ErrInvalidInput{fmt.Errorf("unknown %s %v", resourceType, id)}
}

type ErrPersonUnavailable struct {
	error
	PersonID uuid.UUID
}

func NewErrPersonUnavailable(person model.Person) *ErrPersonUnavailable {
	return &ErrPersonUnavailable{
		error:    fmt.Errorf("%s %s (%s) is unavailable", person.Role, person.Name, person.ID),
		PersonID: person.ID,
	}
}

// ErrCapacityExceeded names the party that already holds the maximum number
// of active inspections on the requested date.
type ErrCapacityExceeded struct {
	error
	Party    model.Role
	PersonID uuid.UUID
	Date     model.Date
	Active   int64
	Capacity int
}

func NewErrCapacityExceeded(party model.Role, personID uuid.UUID, date model.Date, active int64, capacity int) *ErrCapacityExceeded {
	return &ErrCapacityExceeded{
		error:    fmt.Errorf("%s %s has %d active inspections on %s (capacity %d)", party, personID, active, date, capacity),
		Party:    party,
		PersonID: personID,
		Date:     date,
		Active:   active,
		Capacity: capacity,
	}
}

type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(id uuid.UUID, from, to model.InspectionStatus) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("inspection %s cannot move from %s to %s", id, from, to)}
}

func NewErrReassignForbidden(id uuid.UUID, status model.InspectionStatus, reason string) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("inspection %s in status %s cannot be reassigned: %s", id, status, reason)}
}

// ErrPartialAssignmentFailure reports that an inspection may have been
// written while its assignment did not complete. Compensation was attempted;
// the caller should verify and retry.
type ErrPartialAssignmentFailure struct {
	error
	InspectionID uuid.UUID
	Compensated  bool
}

func NewErrPartialAssignmentFailure(id uuid.UUID, cause error, compensationErr error) *ErrPartialAssignmentFailure {
	if compensationErr != nil {
		return &ErrPartialAssignmentFailure{
			error:        fmt.Errorf("inspection %s partially assigned: %v; compensation failed: %v", id, cause, compensationErr),
			InspectionID: id,
		}
	}
	return &ErrPartialAssignmentFailure{
		error:        fmt.Errorf("inspection %s partially assigned and removed: %v", id, cause),
		InspectionID: id,
		Compensated:  true,
	}
}

type ErrStoreUnavailable struct {
	error
}

func NewErrStoreUnavailable(cause error) *ErrStoreUnavailable {
	return &ErrStoreUnavailable{fmt.Errorf("record store unavailable: %w", cause)}
}

type ErrStoreTimeout struct {
	error
}

func NewErrStoreTimeout(cause error) *ErrStoreTimeout {
	return &ErrStoreTimeout{fmt.Errorf("record store timed out: %w", cause)}
}
