package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

var ErrAttemptNotFound = errors.New("checkout attempt not found")

// AttemptRepository is the ledger of order placements made from checkout
// sessions.
type AttemptRepository struct {
	DB *sql.DB
}

func NewAttemptRepo(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.CheckoutAttempt) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}

	if attempt.Status == "" {
		attempt.Status = models.AttemptStatusPending
	}

	now := time.Now().UTC()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	query := `
		INSERT INTO checkout_attempts (id, session_id, order_id, payment_method, amount, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(dbCtx, query, attempt.ID, attempt.SessionID, attempt.OrderID, attempt.PaymentMethod,
		attempt.Amount, attempt.Status, attempt.Error, attempt.CreatedAt, attempt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create checkout attempt: %w", err)
	}

	return nil
}

func (r *AttemptRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttemptStatus, errorMsg string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE checkout_attempts SET status = $1, error = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update checkout attempt status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return fmt.Errorf("%w: %s", ErrAttemptNotFound, id)
	}

	return nil
}

const attemptColumns = `id, session_id, order_id, payment_method, amount, status, error, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*models.CheckoutAttempt, error) {
	attempt := &models.CheckoutAttempt{}

	err := row.Scan(&attempt.ID, &attempt.SessionID, &attempt.OrderID, &attempt.PaymentMethod,
		&attempt.Amount, &attempt.Status, &attempt.Error, &attempt.CreatedAt, &attempt.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return attempt, nil
}

func (r *AttemptRepository) GetLatestBySession(ctx context.Context, sessionID string) (*models.CheckoutAttempt, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + attemptColumns + ` FROM checkout_attempts WHERE session_id = $1 ORDER BY created_at DESC LIMIT 1`

	attempt, err := scanAttempt(r.DB.QueryRowContext(dbCtx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}

		return nil, fmt.Errorf("failed to get checkout attempt: %w", err)
	}

	return attempt, nil
}

func (r *AttemptRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.CheckoutAttempt, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + attemptColumns + ` FROM checkout_attempts WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.DB.QueryContext(dbCtx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout attempts: %w", err)
	}
	defer rows.Close()

	attempts := []*models.CheckoutAttempt{}

	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout attempt: %w", err)
		}

		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkout attempts: %w", err)
	}

	return attempts, nil
}
