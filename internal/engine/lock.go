package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLockHeld is returned when an exclusive engine operation (full stats
// recalculation, season rollover) is requested while another one is running.
// Callers should surface it as a retryable conflict, not a failure.
var ErrLockHeld = errors.New("another exclusive engine operation is in progress")

// LockName is the single advisory lock shared by all exclusive engine
// operations. Recalculation and rollover both clear and rebuild global
// collections, so they must never interleave with each other.
const LockName = "stats_engine"

// EngineLock is the leader/lock row for exclusive operations.
type EngineLock struct {
	gorm.Model
	Name       string    `gorm:"uniqueIndex;not null"`
	Holder     string    `gorm:"not null"`
	AcquiredAt time.Time `gorm:"not null"`
}

// LockManager acquires and releases advisory lock rows. A lock older than
// the TTL is considered abandoned (crashed holder) and may be taken over.
type LockManager struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewLockManager creates a LockManager with the given takeover TTL.
func NewLockManager(db *gorm.DB, ttl time.Duration) *LockManager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LockManager{db: db, ttl: ttl}
}

// Acquire claims the named lock and returns an opaque holder token that must
// be passed to Release. Returns ErrLockHeld if another holder owns a live lock.
func (m *LockManager) Acquire(name string) (string, error) {
	holder := uuid.NewString()
	now := time.Now()

	res := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&EngineLock{Name: name, Holder: holder, AcquiredAt: now})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return holder, nil
	}

	// Row exists. Take it over only if the previous holder's lock expired.
	res = m.db.Model(&EngineLock{}).
		Where("name = ? AND acquired_at < ?", name, now.Add(-m.ttl)).
		Updates(map[string]interface{}{"holder": holder, "acquired_at": now})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return holder, nil
	}
	return "", ErrLockHeld
}

// Release frees the named lock if it is still owned by holder. Releasing a
// lock that was taken over (expired) is a no-op.
func (m *LockManager) Release(name, holder string) error {
	return m.db.Where("name = ? AND holder = ?", name, holder).
		Unscoped().Delete(&EngineLock{}).Error
}
