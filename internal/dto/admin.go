package dto

// PlatformStats aggregates the admin dashboard counters. Revenue is
// sourced strictly from paid transactions.
type PlatformStats struct {
	TotalUsers       int     `json:"total_usuarios"`
	TotalCourses     int     `json:"total_cursos"`
	TotalEnrollments int     `json:"total_inscripciones"`
	Revenue          float64 `json:"ingresos"`
}

// InstructorEarnings summarises one instructor's month.
type InstructorEarnings struct {
	InstructorID   string  `json:"instructor_id"`
	InstructorName string  `json:"instructor"`
	Month          string  `json:"mes"`
	Sales          int     `json:"ventas"`
	Gross          float64 `json:"bruto"`
	Commission     float64 `json:"comision"`
	Net            float64 `json:"neto"`
}

// GrantEnrollmentRequest enrolls a named user from the admin panel.
type GrantEnrollmentRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// ChangeRoleRequest force-changes a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR ADMIN SUPERADMIN"`
}

// MaintenanceRequest toggles the maintenance flag.
type MaintenanceRequest struct {
	Enabled bool `json:"enabled"`
}

// MaintenanceResponse reports the current flag value.
type MaintenanceResponse struct {
	Enabled bool `json:"enabled"`
}

// UpdateProfileRequest mutates the caller's own profile fields.
type UpdateProfileRequest struct {
	FullName  string `json:"full_name" validate:"required,min=2,max=120"`
	Bio       string `json:"bio" validate:"max=2000"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}
