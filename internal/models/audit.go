package models

import "time"

// Audit actions recorded for auth events and admin mutations.
const (
	AuditActionRegister        = "REGISTER"
	AuditActionLogin           = "LOGIN"
	AuditActionPasswordReset   = "PASSWORD_RESET"
	AuditActionRoleChange      = "ROLE_CHANGE"
	AuditActionUserDelete      = "USER_DELETE"
	AuditActionCourseDelete    = "COURSE_DELETE"
	AuditActionCourseReview    = "COURSE_REVIEW"
	AuditActionMaintenanceFlip = "MAINTENANCE_TOGGLE"
)

// AuditLog is an append-only record of sensitive actions.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
