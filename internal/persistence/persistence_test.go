package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("in memory", func(t *testing.T) {
		db, err := OpenSQLite(ctx, MemoryDSN, logger)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, RunMigrations(ctx, db, DialectSQLite, logger))
		// idempotent
		require.NoError(t, RunMigrations(ctx, db, DialectSQLite, logger))

		var tables []string
		require.NoError(t, db.SelectContext(ctx, &tables,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('complaints', 'analytics') ORDER BY name`))
		assert.Equal(t, []string{"analytics", "complaints"}, tables)
	})

	t.Run("on disk creates parent dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "grievances.db")

		db, err := OpenSQLite(ctx, path, logger)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, RunMigrations(ctx, db, DialectSQLite, logger))
		assert.FileExists(t, path)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := OpenSQLite(ctx, "", logger)
		assert.Error(t, err)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		db, err := OpenSQLite(ctx, MemoryDSN, logger)
		require.NoError(t, err)
		defer db.Close()

		assert.Error(t, RunMigrations(ctx, db, "oracle", logger))
	})
}
