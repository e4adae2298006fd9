package postgres

import (
	"context"
	"fmt"

	"chappi-wallet/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPool creates a PostgreSQL connection pool using pgx.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", cfg.MaxConns).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

// Schema creates the tables used by the repositories in this package.
const Schema = `
CREATE TABLE IF NOT EXISTS federation_directory (
	username   TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS federation_sync_outbox (
	id              UUID PRIMARY KEY,
	username        TEXT NOT NULL,
	account_id      TEXT NOT NULL,
	attempts        INT NOT NULL DEFAULT 0,
	last_error      TEXT NOT NULL DEFAULT '',
	next_attempt_at TIMESTAMPTZ NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	done_at         TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_sync_outbox_due ON federation_sync_outbox (next_attempt_at) WHERE done_at IS NULL;

CREATE TABLE IF NOT EXISTS payments (
	id                     UUID PRIMARY KEY,
	idempotency_key        TEXT NOT NULL DEFAULT '',
	source_account_id      TEXT NOT NULL,
	destination            TEXT NOT NULL,
	destination_account_id TEXT NOT NULL DEFAULT '',
	amount                 TEXT NOT NULL,
	asset                  TEXT NOT NULL,
	memo_type              TEXT NOT NULL DEFAULT '',
	memo                   TEXT NOT NULL DEFAULT '',
	state                  TEXT NOT NULL,
	failed_at              TEXT NOT NULL DEFAULT '',
	failure_reason         TEXT NOT NULL DEFAULT '',
	transaction_hash       TEXT NOT NULL DEFAULT '',
	created_at             TIMESTAMPTZ NOT NULL,
	completed_at           TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_payments_source ON payments (source_account_id, created_at DESC);

CREATE TABLE IF NOT EXISTS audit_logs (
	id            UUID PRIMARY KEY,
	subject       TEXT NOT NULL DEFAULT '',
	action        TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL DEFAULT '',
	details       TEXT NOT NULL DEFAULT '',
	ip_address    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
`

// Migrate applies Schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
