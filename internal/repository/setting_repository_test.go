package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

func TestSettingRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "updated_by", "updated_at"}).
		AddRow(models.SettingKeyMaintenance, "true", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1")).
		WithArgs(models.SettingKeyMaintenance).
		WillReturnRows(rows)

	setting, err := repo.Get(context.Background(), models.SettingKeyMaintenance)
	require.NoError(t, err)
	require.Equal(t, "true", setting.Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1")).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "unknown")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings (key, value, updated_by, updated_at)")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := "admin-1"
	err := repo.Upsert(context.Background(), &models.Setting{
		Key:       models.SettingKeyMaintenance,
		Value:     "true",
		UpdatedBy: &admin,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
