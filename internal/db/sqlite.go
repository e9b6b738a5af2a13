package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/udisondev/sleeper/internal/db/migrations"
)

// SQLitePlayerData реализует PlayerDataRepository поверх файла SQLite.
type SQLitePlayerData struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database file at path and applies migrations.
func NewSQLite(ctx context.Context, path string) (*SQLitePlayerData, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// One writer: SQLite serialises writes anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	if err := migrate(ctx, sqlDB, goose.DialectSQLite3, migrations.SQLiteDir); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLitePlayerData{db: sqlDB}, nil
}

// Load implements PlayerDataRepository.
func (r *SQLitePlayerData) Load(ctx context.Context, id uuid.UUID) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data_key, data_value FROM player_data WHERE player_uuid = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("querying data of player %s: %w", id, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning player data row: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player data rows: %w", err)
	}
	return out, nil
}

// Save implements PlayerDataRepository.
func (r *SQLitePlayerData) Save(ctx context.Context, d PlayerData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for player %s: %w", d.UUID, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO players (player_uuid, name, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (player_uuid) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		d.UUID.String(), d.Name, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", d.UUID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_data WHERE player_uuid = ?`, d.UUID.String()); err != nil {
		return fmt.Errorf("delete old data: %w", err)
	}

	if len(d.Values) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO player_data (player_uuid, data_key, data_value) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, key := range sortedKeys(d.Values) {
			if _, err := stmt.ExecContext(ctx, d.UUID.String(), key, d.Values[key]); err != nil {
				return fmt.Errorf("insert data %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *SQLitePlayerData) Close() error {
	return r.db.Close()
}
