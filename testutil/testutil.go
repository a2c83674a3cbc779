// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/lanoel/db"
	"github.com/stretchr/testify/require"
)

// OpenDB opens a fresh SQLite database in a temp dir with the full schema.
func OpenDB(t *testing.T) *db.DB {
	t.Helper()

	conn, err := db.Connect(filepath.Join(t.TempDir(), "test.db"), 5*time.Second)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.EnsureSchema(context.Background(), conn), "failed to create schema")
	return conn
}

func IntPtr(v int) *int {
	return &v
}

func StrPtr(v string) *string {
	return &v
}
