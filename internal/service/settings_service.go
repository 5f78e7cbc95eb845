package service

import (
	"context"
	"database/sql"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

type settingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

type settingsAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SettingsService owns the platform settings, chiefly the maintenance
// flag. The gate reads a short-lived in-process snapshot so the request
// path never waits on the database.
type SettingsService struct {
	repo        settingRepository
	auditor     settingsAuditor
	snapshotTTL time.Duration
	logger      *zap.Logger

	mu          sync.RWMutex
	maintenance bool
	refreshedAt time.Time
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(repo settingRepository, auditor settingsAuditor, snapshotTTL time.Duration, logger *zap.Logger) *SettingsService {
	if snapshotTTL <= 0 {
		snapshotTTL = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, auditor: auditor, snapshotTTL: snapshotTTL, logger: logger}
}

// MaintenanceEnabled reads the flag from the database.
func (s *SettingsService) MaintenanceEnabled(ctx context.Context) (bool, error) {
	setting, err := s.repo.Get(ctx, models.SettingKeyMaintenance)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read maintenance flag")
	}
	enabled, _ := strconv.ParseBool(setting.Value)
	return enabled, nil
}

// SetMaintenance flips the flag and refreshes the gate snapshot
// immediately so the toggle takes effect without waiting out the TTL.
func (s *SettingsService) SetMaintenance(ctx context.Context, caller Identity, enabled bool) error {
	setting := &models.Setting{
		Key:       models.SettingKeyMaintenance,
		Value:     strconv.FormatBool(enabled),
		UpdatedBy: &caller.UserID,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store maintenance flag")
	}

	s.mu.Lock()
	s.maintenance = enabled
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	if s.auditor != nil {
		resourceID := models.SettingKeyMaintenance
		log := &models.AuditLog{
			UserID:     &caller.UserID,
			Action:     models.AuditActionMaintenanceFlip,
			Resource:   "settings",
			ResourceID: &resourceID,
			NewValues:  []byte(strconv.Quote(setting.Value)),
		}
		if err := s.auditor.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to write audit log", zap.Error(err))
		}
	}
	s.logger.Info("maintenance flag changed", zap.Bool("enabled", enabled), zap.String("by", caller.UserID))
	return nil
}

// MaintenanceSnapshot serves the gate. A stale or failed read keeps the
// last known value; the gate fails open by construction.
func (s *SettingsService) MaintenanceSnapshot(ctx context.Context) bool {
	s.mu.RLock()
	fresh := time.Since(s.refreshedAt) < s.snapshotTTL
	value := s.maintenance
	s.mu.RUnlock()
	if fresh {
		return value
	}

	enabled, err := s.MaintenanceEnabled(ctx)
	if err != nil {
		s.logger.Warn("maintenance snapshot refresh failed", zap.Error(err))
		return value
	}

	s.mu.Lock()
	s.maintenance = enabled
	s.refreshedAt = time.Now()
	s.mu.Unlock()
	return enabled
}
