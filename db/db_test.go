package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()

	d, err := Connect(filepath.Join(t.TempDir(), "lanoel.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, EnsureSchema(context.Background(), d))
	return d
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect Dialect
		source  string
	}{
		{"postgres://u:p@localhost/lanoel?sslmode=disable", Postgres, "postgres://u:p@localhost/lanoel?sslmode=disable"},
		{"postgresql://localhost/lanoel", Postgres, "postgresql://localhost/lanoel"},
		{"sqlite://data/lanoel.db", SQLite, "data/lanoel.db"},
		{"data/lanoel.db", SQLite, "data/lanoel.db"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			dialect, source := ParseDSN(tt.dsn)
			assert.Equal(t, tt.dialect, dialect)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestRebind(t *testing.T) {
	assert.Equal(t,
		"SELECT * FROM votes WHERE user_id = $1 AND game_id = $2",
		rebind(Postgres, "SELECT * FROM votes WHERE user_id = ? AND game_id = ?"),
	)
	assert.Equal(t,
		"SELECT '?' FROM games WHERE id = $1",
		rebind(Postgres, "SELECT '?' FROM games WHERE id = ?"),
	)
	assert.Equal(t,
		"SELECT * FROM games WHERE id = ?",
		rebind(SQLite, "SELECT * FROM games WHERE id = ?"),
	)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	d := openTemp(t)
	require.NoError(t, EnsureSchema(context.Background(), d))

	for _, table := range []string{"users", "teams", "games", "votes", "results", "scoring"} {
		var n int
		err := d.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestSeedAdminOnlyOnce(t *testing.T) {
	d := openTemp(t)
	ctx := context.Background()
	seed := AdminSeed{Email: "admin@lanoel.local", Handle: "admin", Password: "Admin"}

	created, err := SeedAdmin(ctx, d, seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(ctx, d, seed)
	require.NoError(t, err)
	assert.False(t, created)

	var count int
	var isAdmin bool
	require.NoError(t, d.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	require.NoError(t, d.QueryRowContext(ctx, `SELECT is_admin FROM users WHERE handle = ?`, "admin").Scan(&isAdmin))
	assert.Equal(t, 1, count)
	assert.True(t, isAdmin)
}

func TestSeedAdminRequiresFields(t *testing.T) {
	d := openTemp(t)
	_, err := SeedAdmin(context.Background(), d, AdminSeed{Email: "x@y"})
	assert.Error(t, err)
}

func TestUniqueViolationDetected(t *testing.T) {
	d := openTemp(t)
	ctx := context.Background()

	_, err := d.ExecContext(ctx, `INSERT INTO votes (user_id, game_id) VALUES (?, ?)`, 1, 1)
	require.NoError(t, err)
	_, err = d.ExecContext(ctx, `INSERT INTO votes (user_id, game_id) VALUES (?, ?)`, 1, 1)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	var se *StorageError
	assert.ErrorAs(t, err, &se)
	assert.False(t, IsUniqueViolation(nil))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d := openTemp(t)
	ctx := context.Background()

	err := d.WithTx(ctx, func(exec Executor) error {
		if _, err := exec.InsertID(ctx, `INSERT INTO games (name) VALUES (?)`, "Chess"); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var n int
	require.NoError(t, d.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n))
	assert.Zero(t, n)

	err = d.WithTx(ctx, func(exec Executor) error {
		id, err := exec.InsertID(ctx, `INSERT INTO games (name) VALUES (?)`, "Chess")
		assert.Equal(t, int64(1), id)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, d.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n))
	assert.Equal(t, 1, n)
}
