package auth

import (
	"fmt"

	"gorm.io/gorm"
)

// adminRowID is the primary key of the single admin identity row.
const adminRowID = 1

// Store provides persistence for the admin identity.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new auth Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates the admin identity table and seeds it from cfg
// when no row exists.
func (s *Store) AutoMigrate(cfg *Config) error {
	if err := s.db.AutoMigrate(&AdminRecord{}); err != nil {
		return fmt.Errorf("auto-migrate admin identity: %w", err)
	}
	var count int64
	if err := s.db.Model(&AdminRecord{}).Where("id = ?", adminRowID).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin identity: %w", err)
	}
	if count > 0 {
		return nil
	}
	record := &AdminRecord{
		ID:    adminRowID,
		Email: cfg.AdminEmail,
		PIN:   cfg.AdminPIN,
		Name:  cfg.AdminName,
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("seed admin identity: %w", err)
	}
	return nil
}

// GetAdmin returns the admin identity.
func (s *Store) GetAdmin() (*AdminRecord, error) {
	var record AdminRecord
	if err := s.db.First(&record, "id = ?", adminRowID).Error; err != nil {
		return nil, fmt.Errorf("get admin identity: %w", err)
	}
	return &record, nil
}

// SetPIN updates the admin PIN.
func (s *Store) SetPIN(pin string) error {
	err := s.db.Model(&AdminRecord{}).Where("id = ?", adminRowID).
		Update("pin", pin).Error
	if err != nil {
		return fmt.Errorf("set admin pin: %w", err)
	}
	return nil
}
