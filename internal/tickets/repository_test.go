package tickets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// The exactly-one-success guarantee for racing scanners rests on the ticket
// read inside AtomicAdmit holding a row lock until the transaction commits.
// Build the same read in dry-run mode and check the lock is actually in the
// generated SQL.
func TestLockForUpdateEmitsRowLock(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	session := db.Session(&gorm.Session{DryRun: true})

	var ticket Ticket
	stmt := lockForUpdate(session).
		Where("code = ?", "CODE-001").
		Find(&ticket).Statement
	require.NotNil(t, stmt)
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")

	// The plain read carries no lock, so the clause must come from the
	// locking helper.
	var unlocked Ticket
	plain := db.Session(&gorm.Session{DryRun: true}).
		Where("code = ?", "CODE-001").
		Find(&unlocked).Statement
	assert.NotContains(t, plain.SQL.String(), "FOR UPDATE")
}
