package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/models"
	appErrors "github.com/aulamarket/aulamarket-api/pkg/errors"
)

// commissionRate is the platform cut applied to instructor earnings.
const commissionRate = 0.30

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type statsRepository interface {
	PlatformStats(ctx context.Context) (*dto.PlatformStats, error)
	InstructorEarnings(ctx context.Context, month string) ([]dto.InstructorEarnings, error)
}

// AdminService backs the administration panel.
type AdminService struct {
	users     adminUserRepository
	stats     statsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs AdminService.
func NewAdminService(users adminUserRepository, stats statsRepository, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: users, stats: stats, validator: validate, logger: logger}
}

// PlatformStats returns the dashboard counters.
func (s *AdminService) PlatformStats(ctx context.Context) (*dto.PlatformStats, error) {
	stats, err := s.stats.PlatformStats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stats")
	}
	return stats, nil
}

// InstructorEarnings reports per-instructor revenue for a month in
// YYYY-MM form, applying the platform commission. An instructor caller
// only sees their own rows.
func (s *AdminService) InstructorEarnings(ctx context.Context, caller Identity, month string) ([]dto.InstructorEarnings, error) {
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	if !monthPattern.MatchString(month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be YYYY-MM")
	}

	earnings, err := s.stats.InstructorEarnings(ctx, month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load earnings")
	}
	if caller.Role == models.RoleInstructor {
		own := earnings[:0]
		for _, e := range earnings {
			if e.InstructorID == caller.UserID {
				own = append(own, e)
			}
		}
		earnings = own
	}
	for i := range earnings {
		earnings[i].Commission = earnings[i].Gross * commissionRate
		earnings[i].Net = earnings[i].Gross - earnings[i].Commission
	}
	return earnings, nil
}

// ListUsers pages through all accounts.
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ChangeRole force-assigns a role. Only a superadmin may mint another
// admin or superadmin.
func (s *AdminService) ChangeRole(ctx context.Context, caller Identity, userID string, req dto.ChangeRoleRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	role := models.UserRole(req.Role)
	if (role == models.RoleAdmin || role == models.RoleSuperAdmin) && caller.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only superadmin may grant admin roles")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID == caller.UserID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "cannot change own role")
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change role")
	}
	user.Role = role

	payload, _ := json.Marshal(map[string]string{"role": string(role)})
	s.audit(ctx, caller.UserID, models.AuditActionRoleChange, "users", userID, payload)
	s.logger.Info("role changed", zap.String("user_id", userID), zap.String("role", string(role)), zap.String("by", caller.UserID))
	return user, nil
}

// DeleteUser removes an account. Self-deletion and superadmin targets
// are rejected.
func (s *AdminService) DeleteUser(ctx context.Context, caller Identity, userID string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == caller.UserID {
		return appErrors.Clone(appErrors.ErrConflict, "cannot delete own account")
	}
	if user.Role == models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "superadmin accounts cannot be deleted")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.audit(ctx, caller.UserID, models.AuditActionUserDelete, "users", userID, nil)
	s.logger.Info("user deleted", zap.String("user_id", userID), zap.String("by", caller.UserID))
	return nil
}

func (s *AdminService) findUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func (s *AdminService) audit(ctx context.Context, actorID, action, resource, resourceID string, payload []byte) {
	log := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  payload,
	}
	if err := s.users.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
