package dto

import "github.com/aulamarket/aulamarket-api/internal/models"

// CreateCourseRequest creates a course in review state.
type CreateCourseRequest struct {
	Titulo      string  `json:"titulo" validate:"required,min=3,max=200"`
	Descripcion string  `json:"descripcion" validate:"required,min=10"`
	Categoria   string  `json:"categoria" validate:"required"`
	Precio      float64 `json:"precio" validate:"gte=0"`
	ImagenURL   string  `json:"imagen_url" validate:"omitempty,url"`
}

// UpdateCourseRequest mutates course fields owned by the instructor.
type UpdateCourseRequest struct {
	Titulo      string  `json:"titulo" validate:"required,min=3,max=200"`
	Descripcion string  `json:"descripcion" validate:"required,min=10"`
	Categoria   string  `json:"categoria" validate:"required"`
	Precio      float64 `json:"precio" validate:"gte=0"`
	ImagenURL   string  `json:"imagen_url" validate:"omitempty,url"`
}

// ReviewCourseRequest resolves a pending course.
type ReviewCourseRequest struct {
	Estado string `json:"estado" validate:"required,oneof=publicado rechazado"`
}

// CourseResponse is a catalog entry with instructor context.
type CourseResponse struct {
	models.CourseDetail
}

// CourseContentResponse is a course with its full module/lesson tree.
type CourseContentResponse struct {
	models.CourseDetail
	Modulos []models.ModuleWithLessons `json:"modulos"`
}

// CreateModuleRequest adds an ordered module to a course.
type CreateModuleRequest struct {
	Titulo string `json:"titulo" validate:"required,min=2,max=200"`
	Orden  int    `json:"orden" validate:"gte=0"`
}

// UpdateModuleRequest renames or reorders a module.
type UpdateModuleRequest struct {
	Titulo string `json:"titulo" validate:"required,min=2,max=200"`
	Orden  int    `json:"orden" validate:"gte=0"`
}

// CreateLessonRequest adds an ordered lesson to a module.
type CreateLessonRequest struct {
	Titulo    string `json:"titulo" validate:"required,min=2,max=200"`
	Tipo      string `json:"tipo" validate:"required,oneof=video texto quiz"`
	Contenido string `json:"contenido"`
	VideoURL  string `json:"video_url" validate:"omitempty,url"`
	Orden     int    `json:"orden" validate:"gte=0"`
}

// UpdateLessonRequest mutates lesson content or ordering.
type UpdateLessonRequest struct {
	Titulo    string `json:"titulo" validate:"required,min=2,max=200"`
	Tipo      string `json:"tipo" validate:"required,oneof=video texto quiz"`
	Contenido string `json:"contenido"`
	VideoURL  string `json:"video_url" validate:"omitempty,url"`
	Orden     int    `json:"orden" validate:"gte=0"`
}
