package accounts

import (
	"fmt"

	"gorm.io/gorm"
)

// statsRowID is the primary key of the single stats row.
const statsRowID = 1

// Store provides persistence for the demo directory.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new accounts Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the directory tables and seeds the
// demo data when the tables are empty.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&UserRecord{}, &TransactionRecord{}, &StatsRecord{}); err != nil {
		return fmt.Errorf("auto-migrate accounts: %w", err)
	}
	return s.seed()
}

func (s *Store) seed() error {
	var userCount int64
	if err := s.db.Model(&UserRecord{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount == 0 {
		users := []UserRecord{
			{ID: 1, Username: "alex_creator", Email: "alex@example.com", Tier: "Power", Credits: 450, Status: "Active", Joined: "2025-11-15", LastActive: "2026-01-04", TotalGenerated: 234},
			{ID: 2, Username: "luna_studio", Email: "luna@example.com", Tier: "Studio", Credits: 2000, Status: "Active", Joined: "2025-10-22", LastActive: "2026-01-03", TotalGenerated: 1205},
			{ID: 3, Username: "mike_designs", Email: "mike@example.com", Tier: "Basic", Credits: 50, Status: "Active", Joined: "2025-12-01", LastActive: "2026-01-04", TotalGenerated: 89},
			{ID: 4, Username: "sarah_art", Email: "sarah@example.com", Tier: "Power", Credits: 320, Status: "Active", Joined: "2025-09-18", LastActive: "2026-01-02", TotalGenerated: 567},
			{ID: 5, Username: "james_media", Email: "james@example.com", Tier: "Studio", Credits: 1500, Status: "Suspended", Joined: "2025-08-05", LastActive: "2025-12-15", TotalGenerated: 2340},
		}
		if err := s.db.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	var txnCount int64
	if err := s.db.Model(&TransactionRecord{}).Count(&txnCount).Error; err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if txnCount == 0 {
		txns := []TransactionRecord{
			{User: "luna_studio", Amount: 99.99, Type: "subscription", Status: "completed", Date: "2026-01-04"},
			{User: "mike_designs", Amount: 19.99, Type: "credits", Status: "completed", Date: "2026-01-04"},
			{User: "alex_creator", Amount: 29.99, Type: "subscription", Status: "completed", Date: "2026-01-03"},
		}
		if err := s.db.Create(&txns).Error; err != nil {
			return fmt.Errorf("seed transactions: %w", err)
		}
	}

	var statsCount int64
	if err := s.db.Model(&StatsRecord{}).Count(&statsCount).Error; err != nil {
		return fmt.Errorf("count stats: %w", err)
	}
	if statsCount == 0 {
		stats := &StatsRecord{
			ID:             statsRowID,
			ActiveUsers:    12847,
			TotalUsers:     15234,
			GPUUsage:       78,
			JobsQueued:     342,
			JobsCompleted:  89450,
			RevenueToday:   4230,
			RevenueWeek:    28450,
			RevenueMonth:   89450,
			MRR:            18200,
			AvgSessionTime: "12m 34s",
		}
		if err := s.db.Create(stats).Error; err != nil {
			return fmt.Errorf("seed stats: %w", err)
		}
	}

	return nil
}

// ListUsers returns all directory users.
func (s *Store) ListUsers() ([]UserRecord, error) {
	var records []UserRecord
	if err := s.db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return records, nil
}

// GetUser returns one user by ID, or nil when not found.
func (s *Store) GetUser(id uint) (*UserRecord, error) {
	var record UserRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &record, nil
}

// ListTransactions returns transactions, newest first.
func (s *Store) ListTransactions() ([]TransactionRecord, error) {
	var records []TransactionRecord
	err := s.db.Order("created_at DESC, id DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return records, nil
}

// AddTransaction records a new transaction.
func (s *Store) AddTransaction(record *TransactionRecord) error {
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	return nil
}

// GetStats returns the dashboard stats block.
func (s *Store) GetStats() (*StatsRecord, error) {
	var record StatsRecord
	if err := s.db.First(&record, "id = ?", statsRowID).Error; err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &record, nil
}
