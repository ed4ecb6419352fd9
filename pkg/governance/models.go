package governance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SentinelStatus is the reported operating mode of the health sentinel.
type SentinelStatus string

const (
	SentinelOnline SentinelStatus = "Online"
	SentinelActive SentinelStatus = "Active"
	SentinelIdle   SentinelStatus = "Idle"
)

// ValidSentinelStatus reports whether s is one of the known sentinel states.
func ValidSentinelStatus(s SentinelStatus) bool {
	switch s {
	case SentinelOnline, SentinelActive, SentinelIdle:
		return true
	}
	return false
}

// JSONAny is a custom GORM type for map[string]any stored as JSON.
type JSONAny map[string]any

// Scan implements the sql.Scanner interface for JSONAny.
func (m *JSONAny) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONAny: %T", value)
	}
	return json.Unmarshal(bytes, m)
}

// Value implements the driver.Valuer interface for JSONAny.
func (m JSONAny) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// StateRecord is the single-row governance state. Row 1 is created at
// migration time and mutated in place by the controller and the sentinel
// heartbeat.
type StateRecord struct {
	ID             uint           `gorm:"primaryKey;column:id"`
	KillSwitch     bool           `gorm:"column:kill_switch;not null"`
	PromoThrottle  int            `gorm:"column:promo_throttle;not null"`
	AISpeed        int            `gorm:"column:ai_speed;not null"`
	LearningRate   int            `gorm:"column:learning_rate;not null"`
	SentinelStatus SentinelStatus `gorm:"column:sentinel_status;default:Idle;not null"`
	HealthScore    int            `gorm:"column:health_score;not null"`
	ActiveThreats  int            `gorm:"column:active_threats;not null"`
	LastAudit      *time.Time     `gorm:"column:last_audit"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (StateRecord) TableName() string { return "governance_state" }

// LogRecord is an append-only governance audit log entry. Entries are
// never updated; the only delete path is the bulk clear endpoint.
type LogRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Action    string    `gorm:"column:action;index:idx_gov_log_action;not null"`
	Details   JSONAny   `gorm:"column:details;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_gov_log_time;autoCreateTime"`
}

// TableName returns the GORM table name.
func (LogRecord) TableName() string { return "governance_logs" }

// AdProofRecord is a synthetic growth-proof entry injected by the
// sentinel's promotion sweep.
type AdProofRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Platform  string    `gorm:"column:platform;not null"`
	ProofType string    `gorm:"column:proof_type;not null"`
	Status    string    `gorm:"column:status;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the GORM table name.
func (AdProofRecord) TableName() string { return "ad_proofs" }
