package generation

import (
	"time"
)

// Provenance identifies which path produced an image URL.
type Provenance string

const (
	ProvenancePrimary  Provenance = "primary"
	ProvenanceFallback Provenance = "fallback"
)

// Record is one persisted generation.
type Record struct {
	ID         string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	Prompt     string     `gorm:"column:prompt;not null"`
	ImageURL   string     `gorm:"column:image_url;type:text;not null"`
	Provider   Provenance `gorm:"column:provider;not null"`
	CustomerID string     `gorm:"column:customer_id;index:idx_generation_customer"`
	CreatedAt  time.Time  `gorm:"column:created_at;index:idx_generation_time;autoCreateTime"`
}

// TableName returns the GORM table name.
func (Record) TableName() string { return "generations" }
