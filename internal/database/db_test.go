package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsWithDBOnFreshDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrationsWithDB(db))
	require.NoError(t, RunMigrationsWithDB(db))

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('sessions', 'navigations')`,
	).Scan(&n))
	require.Equal(t, 2, n)
}

func TestNowIsUTCMillis(t *testing.T) {
	now := Now()
	require.Equal(t, time.UTC, now.Location())
	require.Zero(t, now.Nanosecond()%int(time.Millisecond))
	require.Equal(t, now, time.UnixMilli(now.UnixMilli()).UTC())
}
