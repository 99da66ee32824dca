package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
)

type Assignment interface {
	Bind(ctx context.Context, assignment model.Assignment) (*model.Assignment, error)
	Release(ctx context.Context, inspectionID uuid.UUID, role model.Role) (int64, error)
	ListByPerson(ctx context.Context, personID uuid.UUID, current bool) ([]model.Assignment, error)
	DeleteByInspection(ctx context.Context, inspectionID uuid.UUID) error
}

type AssignmentStore struct {
	db *gorm.DB
}

var _ Assignment = (*AssignmentStore)(nil)

func NewAssignmentStore(db *gorm.DB) Assignment {
	return &AssignmentStore{db: db}
}

func (a *AssignmentStore) Bind(ctx context.Context, assignment model.Assignment) (*model.Assignment, error) {
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	if err := a.getDB(ctx).Create(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Release closes the current binding of the given role on the inspection.
// It returns the number of bindings released.
func (a *AssignmentStore) Release(ctx context.Context, inspectionID uuid.UUID, role model.Role) (int64, error) {
	result := a.getDB(ctx).Model(&model.Assignment{}).
		Where("inspection_id = ? AND role = ? AND released_at IS NULL", inspectionID, role).
		Update("released_at", time.Now())
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (a *AssignmentStore) ListByPerson(ctx context.Context, personID uuid.UUID, current bool) ([]model.Assignment, error) {
	var assignments []model.Assignment
	tx := a.getDB(ctx).Where("person_id = ?", personID)
	if current {
		tx = tx.Where("released_at IS NULL")
	}
	if err := tx.Order("scheduled_date").Order("id").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (a *AssignmentStore) DeleteByInspection(ctx context.Context, inspectionID uuid.UUID) error {
	return a.getDB(ctx).Where("inspection_id = ?", inspectionID).Delete(&model.Assignment{}).Error
}

func (a *AssignmentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return a.db.WithContext(ctx)
}
