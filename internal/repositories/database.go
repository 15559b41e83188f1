package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS checkout_attempts (
		id             UUID PRIMARY KEY,
		session_id     TEXT NOT NULL,
		order_id       TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		amount         NUMERIC(12, 2) NOT NULL,
		status         TEXT NOT NULL,
		error          TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS checkout_attempts_session_idx ON checkout_attempts (session_id, created_at DESC);
`

type Repository struct {
	DB *sql.DB
}

// New opens the traced Postgres pool, makes sure the ledger table exists and
// returns the attempt repository on top of it.
func New(ctx context.Context, cfg *config.Config) (*Repository, *AttemptRepository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(dbCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(dbCtx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return &Repository{DB: db}, NewAttemptRepo(db), nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate checkout_attempts: %w", err)
	}

	return nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
