package promo

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store provides persistence for the promo queue and pulse history.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new promo Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the promo tables.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&QueueRecord{}, &PulseRecord{}); err != nil {
		return fmt.Errorf("auto-migrate promo: %w", err)
	}
	return nil
}

// Enqueue appends one promo string to the queue.
func (s *Store) Enqueue(promo string) (*QueueRecord, error) {
	record := &QueueRecord{
		ID:    uuid.New().String(),
		Promo: promo,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("enqueue promo: %w", err)
	}
	return record, nil
}

// ListQueue returns the pending queue in FIFO order.
func (s *Store) ListQueue() ([]QueueRecord, error) {
	var records []QueueRecord
	if err := s.db.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list promo queue: %w", err)
	}
	return records, nil
}

// Deploy drains the queue and fans each promo out across channels,
// recording one pulse per (promo, channel) pair. Pulse history is
// truncated to the newest pulseCap entries. The drain and fan-out happen
// in a single transaction, so a deploy observes a consistent queue.
// Deploying an empty queue returns an empty slice. The second return is
// the number of promos drained, not the pair count.
func (s *Store) Deploy(channels []string, pulseCap int) ([]Deployment, int, error) {
	var deployed []Deployment
	var drained int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var queued []QueueRecord
		if err := tx.Order("created_at ASC").Find(&queued).Error; err != nil {
			return fmt.Errorf("read promo queue: %w", err)
		}
		if len(queued) == 0 {
			return nil
		}
		drained = len(queued)

		ids := make([]string, len(queued))
		for i, q := range queued {
			ids[i] = q.ID
		}
		if err := tx.Where("id IN ?", ids).Delete(&QueueRecord{}).Error; err != nil {
			return fmt.Errorf("drain promo queue: %w", err)
		}

		pulses := make([]PulseRecord, 0, len(queued)*len(channels))
		for _, q := range queued {
			for _, channel := range channels {
				deployed = append(deployed, Deployment{Channel: channel, Promo: q.Promo})
				pulses = append(pulses, PulseRecord{
					ID:      uuid.New().String(),
					Channel: channel,
					Promo:   q.Promo,
				})
			}
		}
		if len(pulses) > 0 {
			if err := tx.Create(&pulses).Error; err != nil {
				return fmt.Errorf("record promo pulses: %w", err)
			}
		}

		return truncatePulses(tx, pulseCap)
	})
	if err != nil {
		return nil, 0, err
	}

	return deployed, drained, nil
}

// truncatePulses deletes everything beyond the newest cap pulses.
func truncatePulses(tx *gorm.DB, cap int) error {
	if cap <= 0 {
		return nil
	}
	var total int64
	if err := tx.Model(&PulseRecord{}).Count(&total).Error; err != nil {
		return fmt.Errorf("count pulses: %w", err)
	}
	if total <= int64(cap) {
		return nil
	}
	var keep []PulseRecord
	err := tx.Select("id").Order("created_at DESC, id DESC").Limit(cap).Find(&keep).Error
	if err != nil {
		return fmt.Errorf("find newest pulses: %w", err)
	}
	ids := make([]string, len(keep))
	for i, p := range keep {
		ids[i] = p.ID
	}
	if err := tx.Where("id NOT IN ?", ids).Delete(&PulseRecord{}).Error; err != nil {
		return fmt.Errorf("truncate pulses: %w", err)
	}
	return nil
}

// ListPulses returns the newest limit pulses, newest first.
func (s *Store) ListPulses(limit int) ([]PulseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []PulseRecord
	err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list promo pulses: %w", err)
	}
	return records, nil
}
