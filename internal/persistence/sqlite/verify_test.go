// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUsesWAL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "wal.sqlite"), DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.sqlite")
	db, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	steps := []string{
		`CREATE TABLE runs (id TEXT PRIMARY KEY)`,
		`ALTER TABLE runs ADD COLUMN model TEXT NOT NULL DEFAULT ''`,
	}
	require.NoError(t, Migrate(ctx, db, steps[:1]))
	require.NoError(t, Migrate(ctx, db, steps[:1]), "applied steps are skipped")
	require.NoError(t, Migrate(ctx, db, steps))

	var version int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, 2, version)
	_, err = db.Exec(`INSERT INTO runs (id, model) VALUES ('a', 'wall')`)
	require.NoError(t, err)

	assert.Error(t, Migrate(ctx, db, steps[:1]), "older builds refuse newer schemas")
}

func TestMigrateRollsBackFailedStep(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "broken.sqlite"), DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = Migrate(context.Background(), db, []string{`CREATE TABLE ok (id INTEGER)`, `NOT SQL`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 2")

	var version int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestVerifyIntegrityHealthy(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "healthy.sqlite")
	db, err := Open(dbPath, DefaultOptions())
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, data TEXT)")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		_, err = db.Exec("INSERT INTO test (data) VALUES (?)", strings.Repeat("A", 100))
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	for _, full := range []bool{false, true} {
		issues, err := VerifyIntegrity(dbPath, full)
		require.NoError(t, err)
		assert.Nil(t, issues)
	}
}

func TestVerifyIntegrityNotADatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "garbage.sqlite")
	require.NoError(t, os.WriteFile(dbPath, []byte(strings.Repeat("not sqlite ", 512)), 0o600))

	issues, err := VerifyIntegrity(dbPath, true)
	assert.True(t, err != nil || issues != nil, "garbage must not verify as healthy")
}
