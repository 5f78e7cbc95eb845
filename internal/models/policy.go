package models

// Action identifies a protected operation for policy evaluation.
type Action string

const (
	ActionCourseCreate      Action = "course:create"
	ActionCourseManage      Action = "course:manage"
	ActionCourseReview      Action = "course:review"
	ActionEnroll            Action = "enroll"
	ActionUploadPresign     Action = "upload:presign"
	ActionAdminStats        Action = "admin:stats"
	ActionAdminUsers        Action = "admin:users"
	ActionAdminCourses      Action = "admin:courses"
	ActionAdminMaintenance  Action = "admin:maintenance"
	ActionInstructorEarning Action = "admin:earnings"
)

// rolePolicy is the single allow-list consulted for every protected
// operation instead of per-handler role checks.
var rolePolicy = map[Action][]UserRole{
	ActionCourseCreate:      {RoleInstructor, RoleAdmin, RoleSuperAdmin},
	ActionCourseManage:      {RoleInstructor, RoleAdmin, RoleSuperAdmin},
	ActionCourseReview:      {RoleAdmin, RoleSuperAdmin},
	ActionEnroll:            {RoleStudent, RoleInstructor, RoleAdmin, RoleSuperAdmin},
	ActionUploadPresign:     {RoleInstructor, RoleAdmin, RoleSuperAdmin},
	ActionAdminStats:        {RoleAdmin, RoleSuperAdmin},
	ActionAdminUsers:        {RoleAdmin, RoleSuperAdmin},
	ActionAdminCourses:      {RoleAdmin, RoleSuperAdmin},
	ActionAdminMaintenance:  {RoleAdmin, RoleSuperAdmin},
	ActionInstructorEarning: {RoleAdmin, RoleSuperAdmin, RoleInstructor},
}

// Allowed evaluates the static role policy for an action.
func Allowed(role UserRole, action Action) bool {
	for _, allowed := range rolePolicy[action] {
		if allowed == role {
			return true
		}
	}
	return false
}
