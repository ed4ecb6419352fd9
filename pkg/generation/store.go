package generation

import (
	"fmt"

	"gorm.io/gorm"
)

// Store provides persistence for generation history.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new generation Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the generations table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("auto-migrate generations: %w", err)
	}
	return nil
}

// Create persists one generation.
func (s *Store) Create(record *Record) error {
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create generation: %w", err)
	}
	return nil
}

// List returns the newest limit generations, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []Record
	err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return records, nil
}
