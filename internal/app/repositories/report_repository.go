package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// ReportRepository runs the aggregate queries behind rankings and analytics
type ReportRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db, sb: statementBuilder()}
}

// StudentTotals returns every student with its summed marks, highest total first and
// identifier ascending among equal totals. Students without marks have a total of zero.
func (r *ReportRepository) StudentTotals(ctx context.Context) ([]models.StudentTotal, error) {
	sql, args, err := r.sb.Select("s.id", "si.identifier", "s.name", "d.name", "COALESCE(SUM(m.marks), 0) AS total").
		From("students s").
		Join("student_identifiers si ON si.id = s.identifier_id").
		Join("departments d ON d.id = s.department_id").
		LeftJoin("subject_marks m ON m.student_id = s.id").
		GroupBy("s.id", "si.identifier", "s.name", "d.name").
		OrderBy("total DESC", "si.identifier ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student totals query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing student totals query")
		return nil, fmt.Errorf("failed to compute student totals: %w", err)
	}
	defer rows.Close()

	totals := []models.StudentTotal{}
	for rows.Next() {
		var t models.StudentTotal
		if err := rows.Scan(&t.StudentID, &t.Identifier, &t.Name, &t.Department, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// SubjectStats returns mark aggregates for every subject, ordered by subject name.
func (r *ReportRepository) SubjectStats(ctx context.Context) ([]models.SubjectStats, error) {
	sql, args, err := r.sb.Select(
		"sub.id", "sub.name",
		"COUNT(m.id)",
		"COALESCE(SUM(m.marks), 0)",
		"COALESCE(MAX(m.marks), 0)",
		"COALESCE(MIN(m.marks), 0)",
	).
		Column(squirrel.Expr("COUNT(m.id) FILTER (WHERE m.marks < ?)", models.FailThreshold)).
		From("subjects sub").
		LeftJoin("subject_marks m ON m.subject_id = sub.id").
		GroupBy("sub.id", "sub.name").
		OrderBy("sub.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build subject stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing subject stats query")
		return nil, fmt.Errorf("failed to compute subject stats: %w", err)
	}
	defer rows.Close()

	stats := []models.SubjectStats{}
	for rows.Next() {
		var s models.SubjectStats
		if err := rows.Scan(&s.SubjectID, &s.Name, &s.Count, &s.Sum, &s.Max, &s.Min, &s.Fail); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
