package accounts

import (
	"time"
)

// UserRecord is one directory entry. The directory is seeded demo data
// with no relational constraints; the only soft link is the email match
// used at login.
type UserRecord struct {
	ID             uint   `gorm:"primaryKey;column:id"`
	Username       string `gorm:"column:username;not null"`
	Email          string `gorm:"column:email;index:idx_user_email;not null"`
	Tier           string `gorm:"column:tier;not null"`
	Credits        int    `gorm:"column:credits;not null"`
	Status         string `gorm:"column:status;not null"`
	Joined         string `gorm:"column:joined"`
	LastActive     string `gorm:"column:last_active"`
	TotalGenerated int    `gorm:"column:total_generated"`
}

// TableName returns the GORM table name.
func (UserRecord) TableName() string { return "users" }

// TransactionRecord is one billing transaction. Bank is only set for
// payouts.
type TransactionRecord struct {
	ID        uint      `gorm:"primaryKey;column:id;autoIncrement"`
	User      string    `gorm:"column:user_name;not null"`
	Amount    float64   `gorm:"column:amount;not null"`
	Type      string    `gorm:"column:type;not null"`
	Status    string    `gorm:"column:status;not null"`
	Bank      string    `gorm:"column:bank"`
	Date      string    `gorm:"column:date"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_txn_time;autoCreateTime"`
}

// TableName returns the GORM table name.
func (TransactionRecord) TableName() string { return "transactions" }

// StatsRecord is the single-row dashboard stats block.
type StatsRecord struct {
	ID             uint   `gorm:"primaryKey;column:id"`
	ActiveUsers    int    `gorm:"column:active_users"`
	TotalUsers     int    `gorm:"column:total_users"`
	GPUUsage       int    `gorm:"column:gpu_usage"`
	JobsQueued     int    `gorm:"column:jobs_queued"`
	JobsCompleted  int    `gorm:"column:jobs_completed"`
	RevenueToday   int    `gorm:"column:revenue_today"`
	RevenueWeek    int    `gorm:"column:revenue_week"`
	RevenueMonth   int    `gorm:"column:revenue_month"`
	MRR            int    `gorm:"column:mrr"`
	AvgSessionTime string `gorm:"column:avg_session_time"`
}

// TableName returns the GORM table name.
func (StatsRecord) TableName() string { return "dashboard_stats" }
