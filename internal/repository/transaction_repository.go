package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

// TransactionRepository stores payment attempts keyed by reference.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository constructs the repository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists a new pending transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	const query = `INSERT INTO transactions (id, reference, user_id, course_id, amount, currency, status, created_at, updated_at)
        VALUES (:id, :reference, :user_id, :course_id, :amount, :currency, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tx); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// FindByReference returns a transaction by its order reference.
func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	const query = `SELECT id, reference, user_id, course_id, amount, currency, status, created_at, updated_at
        FROM transactions WHERE reference = $1 LIMIT 1`
	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, query, reference); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &tx, nil
}

// MarkFinal moves a pending transaction into a final status. The WHERE
// guard makes replayed callbacks a no-op; the caller gets false when
// the row was already finalized.
func (r *TransactionRepository) MarkFinal(ctx context.Context, reference string, status models.TransactionStatus) (bool, error) {
	const query = `UPDATE transactions SET status = $2, updated_at = $3 WHERE reference = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, reference, status, time.Now().UTC(), models.TransactionPending)
	if err != nil {
		return false, fmt.Errorf("finalize transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finalize transaction result: %w", err)
	}
	return affected == 1, nil
}
