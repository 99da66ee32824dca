package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment binds a person to an inspection. A binding is current while
// ReleasedAt is nil; reassignment releases it instead of deleting it.
type Assignment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	InspectionID  uuid.UUID `gorm:"not null;type:VARCHAR(255);index:assignments_inspection_idx"`
	PersonID      uuid.UUID `gorm:"not null;type:VARCHAR(255);index:assignments_person_date_idx"`
	Role          Role      `gorm:"not null;type:VARCHAR(32)"`
	ScheduledDate Date      `gorm:"not null;index:assignments_person_date_idx"`
	AssignedBy    string    `gorm:"type:VARCHAR(255)"`
	AssignedAt    time.Time `gorm:"not null"`
	ReleasedAt    *time.Time
}

func (a Assignment) IsCurrent() bool {
	return a.ReleasedAt == nil
}
