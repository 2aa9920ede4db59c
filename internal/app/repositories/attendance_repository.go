package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// AttendanceRepository handles attendance days. There is at most one row per (student, date).
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db, sb: statementBuilder()}
}

// Upsert records presence for a day, replacing any earlier value for the same day.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	sql, args, err := r.sb.Insert("attendance").
		Columns("student_id", "date", "is_present").
		Values(a.StudentID, a.Date, a.IsPresent).
		Suffix("ON CONFLICT (student_id, date) DO UPDATE SET is_present = EXCLUDED.is_present RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID); err != nil {
		logger.Error().Err(err).Int64("studentID", a.StudentID).Msg("Error upserting attendance")
		return fmt.Errorf("error saving attendance: %w", err)
	}
	return nil
}

// InsertIfAbsent records a day only when none exists yet for the student.
func (r *AttendanceRepository) InsertIfAbsent(ctx context.Context, a *models.Attendance) (bool, error) {
	sql, args, err := r.sb.Insert("attendance").
		Columns("student_id", "date", "is_present").
		Values(a.StudentID, a.Date, a.IsPresent).
		Suffix("ON CONFLICT (student_id, date) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert attendance query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error inserting attendance: %w", err)
	}
	return true, nil
}

// ListByStudent returns attendance days newest first. A zero limit returns all days.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64, limit uint64) ([]models.Attendance, error) {
	q := r.sb.Select("id", "student_id", "date", "is_present").
		From("attendance").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	days := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Date, &a.IsPresent); err != nil {
			return nil, err
		}
		days = append(days, a)
	}
	return days, rows.Err()
}

// CountByStudent returns how many recorded days the student was present out of all recorded days.
func (r *AttendanceRepository) CountByStudent(ctx context.Context, studentID int64) (present, total int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_present), COUNT(*)
		FROM attendance
		WHERE student_id = $1`, studentID).Scan(&present, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting attendance: %w", err)
	}
	return present, total, nil
}
