package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

type mockSettingRepo struct {
	settings map[string]*models.Setting
	getErr   error
	getCalls int
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	setting, ok := m.settings[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return setting, nil
}

func (m *mockSettingRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	if m.settings == nil {
		m.settings = make(map[string]*models.Setting)
	}
	m.settings[setting.Key] = setting
	return nil
}

type mockAuditor struct {
	logs []*models.AuditLog
}

func (m *mockAuditor) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func TestSettingsServiceMaintenanceDefaultsOff(t *testing.T) {
	repo := &mockSettingRepo{}
	svc := NewSettingsService(repo, &mockAuditor{}, time.Second, zap.NewNop())

	enabled, err := svc.MaintenanceEnabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSettingsServiceSetMaintenanceUpdatesSnapshotImmediately(t *testing.T) {
	repo := &mockSettingRepo{}
	auditor := &mockAuditor{}
	svc := NewSettingsService(repo, auditor, time.Hour, zap.NewNop())

	caller := Identity{UserID: "admin-1", Role: models.RoleAdmin}
	require.NoError(t, svc.SetMaintenance(context.Background(), caller, true))

	assert.True(t, svc.MaintenanceSnapshot(context.Background()))
	assert.Equal(t, "true", repo.settings[models.SettingKeyMaintenance].Value)
	require.Len(t, auditor.logs, 1)
	assert.Equal(t, models.AuditActionMaintenanceFlip, auditor.logs[0].Action)
}

func TestSettingsServiceSnapshotCachesWithinTTL(t *testing.T) {
	repo := &mockSettingRepo{settings: map[string]*models.Setting{
		models.SettingKeyMaintenance: {Key: models.SettingKeyMaintenance, Value: "true"},
	}}
	svc := NewSettingsService(repo, nil, time.Hour, zap.NewNop())

	assert.True(t, svc.MaintenanceSnapshot(context.Background()))
	calls := repo.getCalls
	assert.True(t, svc.MaintenanceSnapshot(context.Background()))
	assert.Equal(t, calls, repo.getCalls)
}

func TestSettingsServiceSnapshotFailsOpenOnStoreError(t *testing.T) {
	repo := &mockSettingRepo{getErr: context.DeadlineExceeded}
	svc := NewSettingsService(repo, nil, time.Nanosecond, zap.NewNop())

	assert.False(t, svc.MaintenanceSnapshot(context.Background()))
}
