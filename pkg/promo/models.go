package promo

import (
	"time"
)

// QueueRecord is one pending promotional string awaiting deployment.
// The queue drains FIFO on deploy.
type QueueRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Promo     string    `gorm:"column:promo;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_promo_queue_time;autoCreateTime"`
}

// TableName returns the GORM table name.
func (QueueRecord) TableName() string { return "promo_queue" }

// PulseRecord represents one simulated delivery of a promo to one
// channel. Pulse history is truncated to the newest entries on each
// deploy; it is UI feedback, not a delivery receipt.
type PulseRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Channel   string    `gorm:"column:channel;not null"`
	Promo     string    `gorm:"column:promo;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_promo_pulse_time;autoCreateTime"`
}

// TableName returns the GORM table name.
func (PulseRecord) TableName() string { return "promo_pulses" }

// Deployment is one (channel, promo) pair produced by a deploy.
type Deployment struct {
	Channel string `json:"channel"`
	Promo   string `json:"promo"`
}
