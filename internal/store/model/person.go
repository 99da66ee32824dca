package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleInspector  Role = "inspector"
)

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityBusy        Availability = "busy"
	AvailabilityUnavailable Availability = "unavailable"
)

// Person is a supervisor or an inspector who can be bound to an inspection.
type Person struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       *time.Time
	Role            Role            `gorm:"not null;type:VARCHAR(32);index:persons_role_availability_idx"`
	Name            string          `gorm:"not null;type:VARCHAR(255)"`
	Email           string          `gorm:"type:VARCHAR(255)"`
	Phone           string          `gorm:"type:VARCHAR(64)"`
	Specialization  string          `gorm:"type:VARCHAR(255)"`
	Availability    Availability    `gorm:"not null;type:VARCHAR(32);default:available;index:persons_role_availability_idx"`
	HourlyRate      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	ExperienceYears int             `gorm:"not null;default:0"`
}

type PersonList []Person

func (p Person) IsUnavailable() bool {
	return p.Availability == AvailabilityUnavailable
}

func (p Person) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func (Person) TableName() string {
	return "persons"
}
