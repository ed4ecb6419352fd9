package auth

import (
	"time"
)

// AdminRecord is the single configured admin identity. Row 1 is seeded
// at migration from config and mutated only by the change-pin endpoint.
type AdminRecord struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Email     string    `gorm:"column:email;not null"`
	PIN       string    `gorm:"column:pin;not null"`
	Name      string    `gorm:"column:name;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (AdminRecord) TableName() string { return "admin_identity" }
