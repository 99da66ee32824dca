package model

import "time"

type Property struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"not null"`
	Name         string    `gorm:"not null;type:VARCHAR(255)"`
	Address      string    `gorm:"type:TEXT"`
	PropertyType string    `gorm:"type:VARCHAR(100)"`
}
