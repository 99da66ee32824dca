package store

import (
	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type PersonQueryFilter BaseQuerier

func NewPersonQueryFilter() *PersonQueryFilter {
	return &PersonQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (pf *PersonQueryFilter) ByRole(role model.Role) *PersonQueryFilter {
	pf.QueryFn = append(pf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("role = ?", role)
	})
	return pf
}

func (pf *PersonQueryFilter) ByAvailability(availability model.Availability) *PersonQueryFilter {
	pf.QueryFn = append(pf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("availability = ?", availability)
	})
	return pf
}

type InspectionQueryFilter BaseQuerier

func NewInspectionQueryFilter() *InspectionQueryFilter {
	return &InspectionQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

// ByPerson matches inspections where the person is bound either as
// supervisor or as inspector.
func (f *InspectionQueryFilter) ByPerson(personID uuid.UUID) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("(supervisor_id = ? OR inspector_id = ?)", personID, personID)
	})
	return f
}

func (f *InspectionQueryFilter) BySupervisor(personID uuid.UUID) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("supervisor_id = ?", personID)
	})
	return f
}

func (f *InspectionQueryFilter) ByInspector(personID uuid.UUID) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("inspector_id = ?", personID)
	})
	return f
}

func (f *InspectionQueryFilter) ByProperty(propertyID uint) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("property_id = ?", propertyID)
	})
	return f
}

func (f *InspectionQueryFilter) OnDate(date model.Date) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("scheduled_date = ?", date)
	})
	return f
}

// InWindow matches scheduled dates in [from, to).
func (f *InspectionQueryFilter) InWindow(from, to model.Date) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("scheduled_date >= ? AND scheduled_date < ?", from, to)
	})
	return f
}

func (f *InspectionQueryFilter) WithStatus(statuses ...model.InspectionStatus) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status IN ?", statuses)
	})
	return f
}

func (f *InspectionQueryFilter) ExcludeID(id uuid.UUID) *InspectionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id <> ?", id)
	})
	return f
}

type InspectionQueryOptions BaseQuerier

func NewInspectionQueryOptions() *InspectionQueryOptions {
	return &InspectionQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *InspectionQueryOptions) WithSortOrder(sort SortOrder) *InspectionQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByID:
			return tx.Order("id")
		case SortByScheduledDate:
			return tx.Order("scheduled_date").Order("created_at")
		case SortByCreatedTime:
			return tx.Order("created_at")
		default:
			return tx
		}
	})
	return o
}

func (o *InspectionQueryOptions) WithLimit(limit int) *InspectionQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

func (o *InspectionQueryOptions) WithOffset(offset int) *InspectionQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}

type SortOrder int

const (
	Unsorted SortOrder = iota
	SortByID
	SortByScheduledDate
	SortByCreatedTime
)
