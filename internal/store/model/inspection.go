package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type InspectionType string

const (
	InspectionTypeRoutine     InspectionType = "routine"
	InspectionTypeMaintenance InspectionType = "maintenance"
	InspectionTypeSafety      InspectionType = "safety"
	InspectionTypeCompliance  InspectionType = "compliance"
	InspectionTypeEmergency   InspectionType = "emergency"
)

var InspectionTypes = []string{
	string(InspectionTypeRoutine),
	string(InspectionTypeMaintenance),
	string(InspectionTypeSafety),
	string(InspectionTypeCompliance),
	string(InspectionTypeEmergency),
}

type InspectionStatus string

const (
	InspectionStatusPending    InspectionStatus = "pending"
	InspectionStatusInProgress InspectionStatus = "in-progress"
	InspectionStatusCompleted  InspectionStatus = "completed"
	InspectionStatusCancelled  InspectionStatus = "cancelled"
)

var InspectionStatuses = []string{
	string(InspectionStatusPending),
	string(InspectionStatusInProgress),
	string(InspectionStatusCompleted),
	string(InspectionStatusCancelled),
}

// ActiveStatuses are the statuses that consume a person's daily capacity.
var ActiveStatuses = []InspectionStatus{InspectionStatusPending, InspectionStatusInProgress}

func (s InspectionStatus) IsTerminal() bool {
	return s == InspectionStatusCompleted || s == InspectionStatusCancelled
}

type Inspection struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       *time.Time
	StatusChangedAt *time.Time
	PropertyID      uint             `gorm:"not null;index:inspections_property_idx"`
	SupervisorID    *uuid.UUID       `gorm:"type:VARCHAR(255);index:inspections_supervisor_date_idx"`
	InspectorID     *uuid.UUID       `gorm:"type:VARCHAR(255);index:inspections_inspector_date_idx"`
	ScheduledDate   Date             `gorm:"not null;index:inspections_supervisor_date_idx;index:inspections_inspector_date_idx"`
	InspectionType  InspectionType   `gorm:"not null;type:VARCHAR(32)"`
	Status          InspectionStatus `gorm:"not null;type:VARCHAR(32);default:pending"`
	Notes           string           `gorm:"type:TEXT"`
	CreatedBy       string           `gorm:"type:VARCHAR(255)"`
	Assignments     []Assignment     `gorm:"foreignKey:InspectionID;references:ID;constraint:OnDelete:CASCADE;"`
}

type InspectionList []Inspection

func (i Inspection) String() string {
	val, _ := json.Marshal(i)
	return string(val)
}
