package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// EnsureSchema creates all tables if they are missing. Safe to call on every start.
func EnsureSchema(ctx context.Context, d *DB) error {
	ddl := sqliteSchema
	if d.dialect == Postgres {
		ddl = postgresSchema
	}
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

type AdminSeed struct {
	Email    string
	Handle   string
	Password string
}

// SeedAdmin creates the bootstrap administrator unless a user with the
// seed email already exists. Returns true when a row was inserted.
func SeedAdmin(ctx context.Context, d *DB, seed AdminSeed) (bool, error) {
	if seed.Email == "" || seed.Handle == "" || seed.Password == "" {
		return false, errors.New("admin seed requires email, handle and password")
	}

	var id int64
	err := d.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, seed.Email).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, wrap("seed admin lookup", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = d.ExecContext(ctx,
		`INSERT INTO users (handle, email, password_hash, is_admin) VALUES (?, ?, ?, ?)`,
		seed.Handle, seed.Email, string(hash), true,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert admin: %w", err)
	}
	return true, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    handle TEXT NOT NULL UNIQUE,
    email TEXT,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS teams (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    player1_id INTEGER,
    player2_id INTEGER
);

CREATE TABLE IF NOT EXISTS games (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image TEXT,
    order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS votes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    game_id INTEGER NOT NULL,
    UNIQUE (user_id, game_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_game_id ON votes(game_id);

CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER,
    team_id INTEGER,
    score INTEGER NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_results_team_id ON results(team_id);

CREATE TABLE IF NOT EXISTS scoring (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER,
    place INTEGER,
    points INTEGER,
    UNIQUE (game_id, place)
)
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    handle TEXT NOT NULL UNIQUE,
    email TEXT,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS teams (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    player1_id INTEGER,
    player2_id INTEGER
);

CREATE TABLE IF NOT EXISTS games (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image TEXT,
    order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS votes (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL,
    game_id INTEGER NOT NULL,
    UNIQUE (user_id, game_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_game_id ON votes(game_id);

CREATE TABLE IF NOT EXISTS results (
    id SERIAL PRIMARY KEY,
    game_id INTEGER,
    team_id INTEGER,
    score INTEGER NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_results_team_id ON results(team_id);

CREATE TABLE IF NOT EXISTS scoring (
    id SERIAL PRIMARY KEY,
    game_id INTEGER,
    place INTEGER,
    points INTEGER,
    UNIQUE (game_id, place)
)
`
