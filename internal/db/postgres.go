package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPlayerData реализует PlayerDataRepository для PostgreSQL.
type PostgresPlayerData struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to PostgreSQL, applies migrations and returns the repository.
func NewPostgres(ctx context.Context, dsn string) (*PostgresPlayerData, error) {
	if err := RunMigrations(ctx, dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return NewPostgresPlayerData(pool), nil
}

// NewPostgresPlayerData wraps an existing pool. The schema must already exist.
func NewPostgresPlayerData(pool *pgxpool.Pool) *PostgresPlayerData {
	return &PostgresPlayerData{pool: pool}
}

// Load implements PlayerDataRepository.
func (r *PostgresPlayerData) Load(ctx context.Context, id uuid.UUID) (map[string][]byte, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT data_key, data_value FROM player_data WHERE player_uuid = $1`, id.String())
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
// Header upsert, delete and batch insert run in one transaction.
func (r *PostgresPlayerData) Save(ctx context.Context, d PlayerData) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for player %s: %w", d.UUID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "player", d.UUID, "error", err)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO players (player_uuid, name, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (player_uuid) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()`,
		d.UUID.String(), d.Name)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", d.UUID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM player_data WHERE player_uuid = $1`, d.UUID.String()); err != nil {
		return fmt.Errorf("delete old data: %w", err)
	}

	if len(d.Values) > 0 {
		batch := &pgx.Batch{}
		for _, key := range sortedKeys(d.Values) {
			batch.Queue(
				`INSERT INTO player_data (player_uuid, data_key, data_value) VALUES ($1, $2, $3)`,
				d.UUID.String(), key, d.Values[key],
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range d.Values {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert data: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (r *PostgresPlayerData) Close() error {
	r.pool.Close()
	return nil
}
