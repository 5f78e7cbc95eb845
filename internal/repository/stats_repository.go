package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulamarket/aulamarket-api/internal/dto"
	"github.com/aulamarket/aulamarket-api/internal/models"
)

// StatsRepository aggregates the admin dashboard queries.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// PlatformStats returns the global counters. Revenue sums paid
// transactions only; course price at query time is never consulted.
func (r *StatsRepository) PlatformStats(ctx context.Context) (*dto.PlatformStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM users) AS total_usuarios,
        (SELECT COUNT(*) FROM courses) AS total_cursos,
        (SELECT COUNT(*) FROM enrollments) AS total_inscripciones,
        (SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE status = $1) AS ingresos`
	var stats struct {
		TotalUsers       int     `db:"total_usuarios"`
		TotalCourses     int     `db:"total_cursos"`
		TotalEnrollments int     `db:"total_inscripciones"`
		Revenue          float64 `db:"ingresos"`
	}
	if err := r.db.GetContext(ctx, &stats, query, models.TransactionPaid); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return &dto.PlatformStats{
		TotalUsers:       stats.TotalUsers,
		TotalCourses:     stats.TotalCourses,
		TotalEnrollments: stats.TotalEnrollments,
		Revenue:          stats.Revenue,
	}, nil
}

// InstructorEarnings groups paid transactions by instructor and month.
// Commission math is applied by the service layer.
func (r *StatsRepository) InstructorEarnings(ctx context.Context, month string) ([]dto.InstructorEarnings, error) {
	const query = `SELECT c.instructor_id, u.full_name AS instructor_name,
        TO_CHAR(t.updated_at, 'YYYY-MM') AS month,
        COUNT(*) AS sales, COALESCE(SUM(t.amount), 0) AS gross
        FROM transactions t
        JOIN courses c ON c.id = t.course_id
        JOIN users u ON u.id = c.instructor_id
        WHERE t.status = $1 AND TO_CHAR(t.updated_at, 'YYYY-MM') = $2
        GROUP BY c.instructor_id, u.full_name, TO_CHAR(t.updated_at, 'YYYY-MM')
        ORDER BY gross DESC`
	var rows []struct {
		InstructorID   string  `db:"instructor_id"`
		InstructorName string  `db:"instructor_name"`
		Month          string  `db:"month"`
		Sales          int     `db:"sales"`
		Gross          float64 `db:"gross"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, models.TransactionPaid, month); err != nil {
		return nil, fmt.Errorf("instructor earnings: %w", err)
	}
	earnings := make([]dto.InstructorEarnings, 0, len(rows))
	for _, row := range rows {
		earnings = append(earnings, dto.InstructorEarnings{
			InstructorID:   row.InstructorID,
			InstructorName: row.InstructorName,
			Month:          row.Month,
			Sales:          row.Sales,
			Gross:          row.Gross,
		})
	}
	return earnings, nil
}
