package models

import "time"

// CourseState is the review lifecycle state of a course. Values are kept
// in Spanish to match the public API contract.
type CourseState string

const (
	CourseStateDraft     CourseState = "borrador"
	CourseStatePending   CourseState = "pendiente"
	CourseStatePublished CourseState = "publicado"
	CourseStateRejected  CourseState = "rechazado"
)

// LessonType discriminates lesson content. The quiz type is accepted but
// carries no additional behaviour yet.
type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypeText  LessonType = "texto"
	LessonTypeQuiz  LessonType = "quiz"
)

// Course is owned by exactly one instructor and owns its modules.
type Course struct {
	ID           string      `db:"id" json:"id"`
	InstructorID string      `db:"instructor_id" json:"instructor_id"`
	Titulo       string      `db:"titulo" json:"titulo"`
	Descripcion  string      `db:"descripcion" json:"descripcion"`
	Categoria    string      `db:"categoria" json:"categoria"`
	Precio       float64     `db:"precio" json:"precio"`
	ImagenURL    string      `db:"imagen_url" json:"imagen_url,omitempty"`
	Estado       CourseState `db:"estado" json:"estado"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// CourseDetail joins the instructor display name onto a course row.
type CourseDetail struct {
	Course
	InstructorName string `db:"instructor_name" json:"instructor_name"`
}

// Module is an ordered child of a course.
type Module struct {
	ID       string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	Titulo   string `db:"titulo" json:"titulo"`
	Orden    int    `db:"orden" json:"orden"`
}

// Lesson is an ordered child of a module.
type Lesson struct {
	ID        string     `db:"id" json:"id"`
	ModuleID  string     `db:"module_id" json:"module_id"`
	Titulo    string     `db:"titulo" json:"titulo"`
	Tipo      LessonType `db:"tipo" json:"tipo"`
	Contenido string     `db:"contenido" json:"contenido,omitempty"`
	VideoURL  string     `db:"video_url" json:"video_url,omitempty"`
	Orden     int        `db:"orden" json:"orden"`
}

// ModuleWithLessons groups a module and its ordered lessons.
type ModuleWithLessons struct {
	Module
	Lessons []Lesson `json:"lecciones"`
}

// CourseFilter captures catalog listing criteria.
type CourseFilter struct {
	Estado       CourseState
	InstructorID string
	Categoria    string
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
