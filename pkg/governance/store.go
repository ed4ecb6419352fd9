package governance

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stateRowID is the primary key of the single governance state row.
const stateRowID = 1

// ErrOutOfRange is returned when a ranged field write falls outside its
// declared bounds. The state is left unchanged.
var ErrOutOfRange = errors.New("value out of range")

// Field names accepted by SetField.
const (
	FieldPromoThrottle = "promoThrottle"
	FieldAISpeed       = "aiSpeed"
	FieldLearningRate  = "learningRate"
)

// fieldRange declares the inclusive bounds for a ranged state field.
type fieldRange struct {
	column   string
	min, max int
}

// fieldRanges is the single validated-update contract for all numeric
// setters. Every ranged write goes through here so validation cannot
// drift between fields.
var fieldRanges = map[string]fieldRange{
	FieldPromoThrottle: {column: "promo_throttle", min: 0, max: 150},
	FieldAISpeed:       {column: "ai_speed", min: 0, max: 100},
	FieldLearningRate:  {column: "learning_rate", min: 0, max: 100},
}

// Store provides persistence for governance state, logs, and ad proofs.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new governance Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the governance tables and seeds the
// state row when it does not exist.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&StateRecord{}, &LogRecord{}, &AdProofRecord{}); err != nil {
		return fmt.Errorf("auto-migrate governance: %w", err)
	}
	return s.seed()
}

// seed creates the initial state row. Kill switch armed and throttle at
// the ceiling match the shipped defaults.
func (s *Store) seed() error {
	var count int64
	if err := s.db.Model(&StateRecord{}).Where("id = ?", stateRowID).Count(&count).Error; err != nil {
		return fmt.Errorf("check governance state row: %w", err)
	}
	if count > 0 {
		return nil
	}
	record := &StateRecord{
		ID:             stateRowID,
		KillSwitch:     true,
		PromoThrottle:  150,
		AISpeed:        50,
		LearningRate:   50,
		SentinelStatus: SentinelIdle,
		HealthScore:    100,
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("seed governance state: %w", err)
	}
	return nil
}

// Get returns the current governance state.
func (s *Store) Get() (*StateRecord, error) {
	var record StateRecord
	if err := s.db.First(&record, "id = ?", stateRowID).Error; err != nil {
		return nil, fmt.Errorf("get governance state: %w", err)
	}
	return &record, nil
}

// SetField writes a ranged numeric field. Returns ErrOutOfRange (wrapped
// with the declared bounds) when value is outside the field's range; the
// stored state is untouched in that case.
func (s *Store) SetField(field string, value int) (int, error) {
	fr, ok := fieldRanges[field]
	if !ok {
		return 0, fmt.Errorf("unknown governance field %q", field)
	}
	if value < fr.min || value > fr.max {
		return 0, fmt.Errorf("%s must be %d-%d: %w", field, fr.min, fr.max, ErrOutOfRange)
	}
	err := s.db.Model(&StateRecord{}).Where("id = ?", stateRowID).
		Update(fr.column, value).Error
	if err != nil {
		return 0, fmt.Errorf("set %s: %w", field, err)
	}
	return value, nil
}

// ToggleKillSwitch sets the kill switch and returns the new value.
func (s *Store) ToggleKillSwitch(enabled bool) (bool, error) {
	err := s.db.Model(&StateRecord{}).Where("id = ?", stateRowID).
		Update("kill_switch", enabled).Error
	if err != nil {
		return false, fmt.Errorf("toggle kill switch: %w", err)
	}
	return enabled, nil
}

// UpdateSentinel records a sentinel heartbeat. The health score is
// clamped to [0,100] and the threat count floored at zero at the write
// boundary.
func (s *Store) UpdateSentinel(status SentinelStatus, healthScore, activeThreats int) error {
	if !ValidSentinelStatus(status) {
		status = SentinelActive
	}
	if healthScore < 0 {
		healthScore = 0
	}
	if healthScore > 100 {
		healthScore = 100
	}
	if activeThreats < 0 {
		activeThreats = 0
	}
	now := time.Now()
	err := s.db.Model(&StateRecord{}).Where("id = ?", stateRowID).
		Updates(map[string]any{
			"sentinel_status": status,
			"health_score":    healthScore,
			"active_threats":  activeThreats,
			"last_audit":      now,
		}).Error
	if err != nil {
		return fmt.Errorf("update sentinel state: %w", err)
	}
	return nil
}

// AppendLog appends one governance log entry. Log writes are best-effort
// from the caller's perspective; callers that must not fail on a log
// error discard the returned error explicitly.
func (s *Store) AppendLog(action string, details map[string]any) error {
	record := &LogRecord{
		ID:      uuid.New().String(),
		Action:  action,
		Details: JSONAny(details),
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("append governance log: %w", err)
	}
	return nil
}

// ListLogs returns the newest limit log entries, newest first.
func (s *Store) ListLogs(limit int) ([]LogRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []LogRecord
	err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list governance logs: %w", err)
	}
	return records, nil
}

// ClearLogs deletes all log entries and returns the number removed.
func (s *Store) ClearLogs() (int64, error) {
	result := s.db.Where("1 = 1").Delete(&LogRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear governance logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// AddAdProof records a growth proof entry.
func (s *Store) AddAdProof(platform, proofType, status string) (*AdProofRecord, error) {
	record := &AdProofRecord{
		ID:        uuid.New().String(),
		Platform:  platform,
		ProofType: proofType,
		Status:    status,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("add ad proof: %w", err)
	}
	return record, nil
}

// ListAdProofs returns the newest limit ad proofs, newest first.
func (s *Store) ListAdProofs(limit int) ([]AdProofRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []AdProofRecord
	err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list ad proofs: %w", err)
	}
	return records, nil
}
