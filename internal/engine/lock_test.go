package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&EngineLock{}))
	return db
}

func TestAcquireIsExclusive(t *testing.T) {
	db := newTestDB(t)
	locks := NewLockManager(db, time.Minute)

	holder, err := locks.Acquire(LockName)
	require.NoError(t, err)
	require.NotEmpty(t, holder)

	_, err = locks.Acquire(LockName)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, locks.Release(LockName, holder))

	holder2, err := locks.Acquire(LockName)
	require.NoError(t, err)
	assert.NotEqual(t, holder, holder2)
}

func TestIndependentLockNames(t *testing.T) {
	db := newTestDB(t)
	locks := NewLockManager(db, time.Minute)

	_, err := locks.Acquire("alpha")
	require.NoError(t, err)

	_, err = locks.Acquire("beta")
	assert.NoError(t, err, "different names never contend")
}

func TestExpiredLockIsTakenOver(t *testing.T) {
	db := newTestDB(t)
	locks := NewLockManager(db, time.Minute)

	stale, err := locks.Acquire(LockName)
	require.NoError(t, err)

	// Simulate a crashed holder by backdating the row past the TTL.
	err = db.Model(&EngineLock{}).Where("name = ?", LockName).
		Update("acquired_at", time.Now().Add(-2*time.Minute)).Error
	require.NoError(t, err)

	fresh, err := locks.Acquire(LockName)
	require.NoError(t, err)
	assert.NotEqual(t, stale, fresh)

	// The stale holder releasing after takeover must not free the new lock.
	require.NoError(t, locks.Release(LockName, stale))
	_, err = locks.Acquire(LockName)
	assert.ErrorIs(t, err, ErrLockHeld)
}

func TestReleaseWrongHolderIsNoop(t *testing.T) {
	db := newTestDB(t)
	locks := NewLockManager(db, time.Minute)

	_, err := locks.Acquire(LockName)
	require.NoError(t, err)

	require.NoError(t, locks.Release(LockName, "not-the-holder"))

	_, err = locks.Acquire(LockName)
	assert.ErrorIs(t, err, ErrLockHeld)
}
