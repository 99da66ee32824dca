package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Inspection interface {
	List(ctx context.Context, filter *InspectionQueryFilter, opts *InspectionQueryOptions) (model.InspectionList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Inspection, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Inspection, error)
	Count(ctx context.Context, filter *InspectionQueryFilter) (int64, error)
	CountByStatus(ctx context.Context, filter *InspectionQueryFilter) (map[model.InspectionStatus]int64, error)
	Create(ctx context.Context, inspection model.Inspection) (*model.Inspection, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InspectionStatus) error
	UpdateAssignment(ctx context.Context, inspection model.Inspection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type InspectionStore struct {
	db *gorm.DB
}

var _ Inspection = (*InspectionStore)(nil)

func NewInspectionStore(db *gorm.DB) Inspection {
	return &InspectionStore{db: db}
}

func (i *InspectionStore) List(ctx context.Context, filter *InspectionQueryFilter, opts *InspectionQueryOptions) (model.InspectionList, error) {
	var inspections model.InspectionList
	tx := i.getDB(ctx).Model(&inspections)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&inspections).Error; err != nil {
		return nil, err
	}
	return inspections, nil
}

// Get returns the inspection together with its whole assignment history.
func (i *InspectionStore) Get(ctx context.Context, id uuid.UUID) (*model.Inspection, error) {
	var inspection model.Inspection
	err := i.getDB(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_at").Order("id")
		}).
		First(&inspection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// GetForUpdate reads the inspection row with a row lock. The lock is only
// honoured by postgres; sqlite already serializes writers.
func (i *InspectionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Inspection, error) {
	var inspection model.Inspection
	err := i.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inspection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

func (i *InspectionStore) Count(ctx context.Context, filter *InspectionQueryFilter) (int64, error) {
	var count int64
	tx := i.getDB(ctx).Model(&model.Inspection{})

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (i *InspectionStore) CountByStatus(ctx context.Context, filter *InspectionQueryFilter) (map[model.InspectionStatus]int64, error) {
	type statusCount struct {
		Status model.InspectionStatus
		Total  int64
	}

	var rows []statusCount
	tx := i.getDB(ctx).Model(&model.Inspection{}).Select("status, count(*) as total")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.InspectionStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (i *InspectionStore) Create(ctx context.Context, inspection model.Inspection) (*model.Inspection, error) {
	if inspection.ID == uuid.Nil {
		inspection.ID = uuid.New()
	}
	if inspection.Status == "" {
		inspection.Status = model.InspectionStatusPending
	}
	// assignments are written through the Assignment store
	if err := i.getDB(ctx).Omit(clause.Associations).Create(&inspection).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &inspection, nil
}

func (i *InspectionStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InspectionStatus) error {
	now := time.Now()
	result := i.getDB(ctx).Model(&model.Inspection{}).Where("id = ?", id).Updates(map[string]any{
		"status":            status,
		"status_changed_at": now,
		"updated_at":        now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateAssignment persists the supervisor, inspector and scheduled date of
// the given inspection.
func (i *InspectionStore) UpdateAssignment(ctx context.Context, inspection model.Inspection) error {
	result := i.getDB(ctx).Model(&model.Inspection{}).Where("id = ?", inspection.ID).Updates(map[string]any{
		"supervisor_id":  inspection.SupervisorID,
		"inspector_id":   inspection.InspectorID,
		"scheduled_date": inspection.ScheduledDate,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the inspection row. Bindings must be removed first with
// Assignment().DeleteByInspection.
func (i *InspectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := i.getDB(ctx).Delete(&model.Inspection{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (i *InspectionStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return i.db.WithContext(ctx)
}
