package models

import "time"

// Enrollment records a user's access and progress within a course. An
// enrollment whose progress reaches 100 doubles as the certificate
// record, identified by its own ID.
type Enrollment struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	CourseID    string     `db:"course_id" json:"course_id"`
	Progress    int        `db:"progress_porcentaje" json:"progress_porcentaje"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// EnrollmentDetail joins course and people context onto an enrollment.
type EnrollmentDetail struct {
	Enrollment
	CourseTitle    string `db:"course_title" json:"curso"`
	CourseImageURL string `db:"course_image_url" json:"curso_imagen,omitempty"`
	StudentName    string `db:"student_name" json:"estudiante"`
	InstructorName string `db:"instructor_name" json:"instructor"`
}

// CertificateView is the redacted public shape returned by verification.
type CertificateView struct {
	Valido       bool       `json:"valido"`
	Estudiante   string     `json:"estudiante"`
	Curso        string     `json:"curso"`
	Instructor   string     `json:"instructor"`
	Completado   *time.Time `json:"fecha_completado,omitempty"`
	EnrollmentID string     `json:"certificado_id"`
}
