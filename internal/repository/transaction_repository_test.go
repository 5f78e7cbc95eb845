package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

func TestTransactionRepositoryFindByReference(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "reference", "user_id", "course_id", "amount", "currency", "status", "created_at", "updated_at"}).
		AddRow("tx-1", "ORD-123", "user-1", "course-1", 49.99, "USD", models.TransactionPending, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, reference, user_id, course_id, amount, currency, status, created_at, updated_at")).
		WithArgs("ORD-123").
		WillReturnRows(rows)

	tx, err := repo.FindByReference(context.Background(), "ORD-123")
	require.NoError(t, err)
	require.Equal(t, models.TransactionPending, tx.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryMarkFinalGuardsPendingOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status = $2, updated_at = $3 WHERE reference = $1 AND status = $4")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.MarkFinal(context.Background(), "ORD-123", models.TransactionPaid)
	require.NoError(t, err)
	require.True(t, updated)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status = $2, updated_at = $3 WHERE reference = $1 AND status = $4")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err = repo.MarkFinal(context.Background(), "ORD-123", models.TransactionPaid)
	require.NoError(t, err)
	require.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}
