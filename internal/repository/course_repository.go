package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aulamarket/aulamarket-api/internal/models"
)

// CourseRepository handles persistence of courses, modules and lessons.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseDetailColumns = `c.id, c.instructor_id, c.titulo, c.descripcion, c.categoria, c.precio, c.imagen_url, c.estado, c.created_at, c.updated_at,
        u.full_name AS instructor_name`

// List returns courses filtered by the provided criteria with total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	base := `FROM courses c
LEFT JOIN users u ON u.id = c.instructor_id`
	var conditions []string
	var args []interface{}

	if filter.Estado != "" {
		conditions = append(conditions, fmt.Sprintf("c.estado = $%d", len(args)+1))
		args = append(args, filter.Estado)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("c.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.Categoria != "" {
		conditions = append(conditions, fmt.Sprintf("c.categoria = $%d", len(args)+1))
		args = append(args, filter.Categoria)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.titulo) LIKE $%d OR LOWER(c.descripcion) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at": "c.created_at",
		"titulo":     "c.titulo",
		"precio":     "c.precio",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "c.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d`, courseDetailColumns, base+clause, orderBy, order, size, offset)

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID returns a course with instructor context.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses c LEFT JOIN users u ON u.id = c.instructor_id WHERE c.id = $1`, courseDetailColumns)
	var course models.CourseDetail
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, instructor_id, titulo, descripcion, categoria, precio, imagen_url, estado, created_at, updated_at)
        VALUES (:id, :instructor_id, :titulo, :descripcion, :categoria, :precio, :imagen_url, :estado, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update mutates the owner-editable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET titulo = :titulo, descripcion = :descripcion, categoria = :categoria,
        precio = :precio, imagen_url = :imagen_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course. Modules and lessons go with it via FK cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// Review transitions a pending course to publicado or rechazado. The
// WHERE guard makes any other transition a no-op, reported to the caller.
func (r *CourseRepository) Review(ctx context.Context, id string, estado models.CourseState) (bool, error) {
	const query = `UPDATE courses SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4`
	res, err := r.db.ExecContext(ctx, query, id, estado, time.Now().UTC(), models.CourseStatePending)
	if err != nil {
		return false, fmt.Errorf("review course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review course result: %w", err)
	}
	return affected == 1, nil
}

// ModulesWithLessons returns the ordered content tree for a course.
func (r *CourseRepository) ModulesWithLessons(ctx context.Context, courseID string) ([]models.ModuleWithLessons, error) {
	const moduleQuery = `SELECT id, course_id, titulo, orden FROM modules WHERE course_id = $1 ORDER BY orden ASC`
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, moduleQuery, courseID); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	const lessonQuery = `SELECT l.id, l.module_id, l.titulo, l.tipo, l.contenido, l.video_url, l.orden
        FROM lessons l JOIN modules m ON m.id = l.module_id WHERE m.course_id = $1 ORDER BY l.orden ASC`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, lessonQuery, courseID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	byModule := make(map[string][]models.Lesson, len(modules))
	for _, lesson := range lessons {
		byModule[lesson.ModuleID] = append(byModule[lesson.ModuleID], lesson)
	}

	tree := make([]models.ModuleWithLessons, 0, len(modules))
	for _, module := range modules {
		tree = append(tree, models.ModuleWithLessons{Module: module, Lessons: byModule[module.ID]})
	}
	return tree, nil
}

// CreateModule adds a module to a course.
func (r *CourseRepository) CreateModule(ctx context.Context, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	const query = `INSERT INTO modules (id, course_id, titulo, orden) VALUES (:id, :course_id, :titulo, :orden)`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// FindModule returns a module by ID.
func (r *CourseRepository) FindModule(ctx context.Context, id string) (*models.Module, error) {
	const query = `SELECT id, course_id, titulo, orden FROM modules WHERE id = $1`
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return &module, nil
}

// UpdateModule renames or reorders a module.
func (r *CourseRepository) UpdateModule(ctx context.Context, module *models.Module) error {
	const query = `UPDATE modules SET titulo = :titulo, orden = :orden WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	return nil
}

// DeleteModule removes a module and its lessons via FK cascade.
func (r *CourseRepository) DeleteModule(ctx context.Context, id string) error {
	const query = `DELETE FROM modules WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	return nil
}

// CreateLesson adds a lesson to a module.
func (r *CourseRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	const query = `INSERT INTO lessons (id, module_id, titulo, tipo, contenido, video_url, orden)
        VALUES (:id, :module_id, :titulo, :tipo, :contenido, :video_url, :orden)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// FindLesson returns a lesson by ID.
func (r *CourseRepository) FindLesson(ctx context.Context, id string) (*models.Lesson, error) {
	const query = `SELECT id, module_id, titulo, tipo, contenido, video_url, orden FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return &lesson, nil
}

// UpdateLesson mutates lesson content or ordering.
func (r *CourseRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	const query = `UPDATE lessons SET titulo = :titulo, tipo = :tipo, contenido = :contenido,
        video_url = :video_url, orden = :orden WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// DeleteLesson removes a lesson.
func (r *CourseRepository) DeleteLesson(ctx context.Context, id string) error {
	const query = `DELETE FROM lessons WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// CountLessons returns the number of lessons belonging to a course.
func (r *CourseRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lessons l JOIN modules m ON m.id = l.module_id WHERE m.course_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, courseID); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return total, nil
}

// LessonBelongsToCourse checks the lesson/course relation used by the
// completion endpoint.
func (r *CourseRepository) LessonBelongsToCourse(ctx context.Context, lessonID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM lessons l JOIN modules m ON m.id = l.module_id WHERE l.id = $1 AND m.course_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, lessonID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check lesson ownership: %w", err)
	}
	return true, nil
}
