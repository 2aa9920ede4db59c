package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// MarksRepository handles subject marks. There is at most one row per (student, subject).
type MarksRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMarksRepository creates a new MarksRepository
func NewMarksRepository(db *pgxpool.Pool) *MarksRepository {
	return &MarksRepository{db: db, sb: statementBuilder()}
}

func mapMarksWriteError(err error) error {
	switch {
	case dberrors.IsCheckViolation(err):
		return apperrors.NewValidationError("marks must not be negative")
	case dberrors.IsForeignKeyViolation(err):
		return apperrors.ErrSubjectNotFound
	}
	return err
}

// Upsert writes the marks of a student in a subject, updating the existing row if there is one.
func (r *MarksRepository) Upsert(ctx context.Context, mark *models.SubjectMark) error {
	sql, args, err := r.sb.Insert("subject_marks").
		Columns("student_id", "subject_id", "marks").
		Values(mark.StudentID, mark.SubjectID, mark.Marks).
		Suffix("ON CONFLICT (student_id, subject_id) DO UPDATE SET marks = EXCLUDED.marks RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert marks query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&mark.ID); err != nil {
		if mapped := mapMarksWriteError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Int64("studentID", mark.StudentID).Int64("subjectID", mark.SubjectID).Msg("Error upserting marks")
		return fmt.Errorf("error saving marks: %w", err)
	}
	return nil
}

// InsertIfAbsent writes marks only when the pair has none yet. It reports whether a row was inserted.
func (r *MarksRepository) InsertIfAbsent(ctx context.Context, mark *models.SubjectMark) (bool, error) {
	sql, args, err := r.sb.Insert("subject_marks").
		Columns("student_id", "subject_id", "marks").
		Values(mark.StudentID, mark.SubjectID, mark.Marks).
		Suffix("ON CONFLICT (student_id, subject_id) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert marks query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&mark.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error inserting marks: %w", mapMarksWriteError(err))
	}
	return true, nil
}

// ListByStudent returns a student's marks ordered by subject name
func (r *MarksRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.SubjectMark, error) {
	sql, args, err := r.sb.Select("m.id", "m.student_id", "m.subject_id", "sub.name", "m.marks").
		From("subject_marks m").
		Join("subjects sub ON sub.id = m.subject_id").
		Where(squirrel.Eq{"m.student_id": studentID}).
		OrderBy("sub.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list marks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing marks: %w", err)
	}
	defer rows.Close()

	marks := []models.SubjectMark{}
	for rows.Next() {
		var m models.SubjectMark
		if err := rows.Scan(&m.ID, &m.StudentID, &m.SubjectID, &m.SubjectName, &m.Marks); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}
