package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	pgMaxRetries     = 5
	pgConnectTimeout = 5 * time.Second
	pgInitialBackoff = 500 * time.Millisecond
)

// PostgresKV stores blobs in a kv table through a pgx pool.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV connects with exponential backoff and ensures the kv table exists.
func NewPostgresKV(ctx context.Context, databaseURL string) (*PostgresKV, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres storage requires DB_URL")
	}

	var (
		pool    *pgxpool.Pool
		err     error
		backoff = pgInitialBackoff
	)
	for i := 1; i <= pgMaxRetries; i++ {
		pool, err = connectPool(ctx, databaseURL)
		if err == nil {
			break
		}
		if i == pgMaxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", pgMaxRetries, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BYTEA NOT NULL
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &PostgresKV{pool: pool}, nil
}

func connectPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	cctx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()
	return pgxpool.ConnectConfig(cctx, cfg)
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return v, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
        INSERT INTO kv (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Remove(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv WHERE key=$1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *PostgresKV) Close() error {
	p.pool.Close()
	return nil
}
