package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/db"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
	"github.com/yigit/schoolms/internal/pkg/helpers"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// DefaultStudentAge is used when a student is created without an age.
const DefaultStudentAge = 18

// StudentRepository handles students and their identifiers
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, sb: statementBuilder()}
}

func (r *StudentRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.department_id", "s.identifier_id", "si.identifier",
		"s.name", "s.email", "s.age", "s.address", "d.name",
	).
		From("students s").
		Join("student_identifiers si ON si.id = s.identifier_id").
		Join("departments d ON d.id = s.department_id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var dept models.Department
	err := row.Scan(&s.ID, &s.DepartmentID, &s.IdentifierID, &s.Identifier,
		&s.Name, &s.Email, &s.Age, &s.Address, &dept.Name)
	if err != nil {
		return nil, err
	}
	dept.ID = s.DepartmentID
	s.Department = &dept
	return &s, nil
}

// searchFilter matches term case-insensitively against the name or the identifier.
func searchFilter(term string) squirrel.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	pattern := helpers.ContainsPattern(term)
	return squirrel.Or{
		squirrel.ILike{"s.name": pattern},
		squirrel.ILike{"si.identifier": pattern},
	}
}

// Create inserts the identifier and the student in one transaction.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.Age == 0 {
		student.Age = DefaultStudentAge
	}

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("student_identifiers").
			Columns("identifier").
			Values(student.Identifier).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create identifier query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&student.IdentifierID); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "student_identifiers_identifier_key") {
				return apperrors.ErrStudentIDAlreadyExists
			}
			return fmt.Errorf("error creating student identifier: %w", err)
		}

		sql, args, err = r.sb.Insert("students").
			Columns("department_id", "identifier_id", "name", "email", "age", "address").
			Values(student.DepartmentID, student.IdentifierID, student.Name, student.Email, student.Age, student.Address).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
				return apperrors.ErrStudentEmailExists
			case dberrors.IsForeignKeyViolation(err):
				return apperrors.ErrDepartmentNotFound
			}
			logger.Error().Err(err).Str("identifier", student.Identifier).Msg("Error creating student")
			return fmt.Errorf("error creating student: %w", err)
		}
		return nil
	})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.baseSelect().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByIdentifier retrieves a student by its external identifier
func (r *StudentRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"si.identifier": identifier})
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

// CountSearch counts the students matching term (all students when term is blank).
func (r *StudentRepository) CountSearch(ctx context.Context, term string) (int64, error) {
	q := r.sb.Select("COUNT(*)").
		From("students s").
		Join("student_identifiers si ON si.id = s.identifier_id")
	if filter := searchFilter(term); filter != nil {
		q = q.Where(filter)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return total, nil
}

// Search returns one page of students matching term, ordered by name then id.
func (r *StudentRepository) Search(ctx context.Context, term string, limit, offset uint64) ([]*models.Student, error) {
	q := r.baseSelect().OrderBy("s.name ASC", "s.id ASC").Limit(limit).Offset(offset)
	if filter := searchFilter(term); filter != nil {
		q = q.Where(filter)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search students query: %w", err)
	}
	return r.list(ctx, sql, args)
}

// ListAll returns every student ordered by id
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.baseSelect().OrderBy("s.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}
	return r.list(ctx, sql, args)
}

func (r *StudentRepository) list(ctx context.Context, sql string, args []interface{}) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

// IdentifierExists checks whether an identifier is already issued
func (r *StudentRepository) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM student_identifiers WHERE identifier = $1)`, identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking identifier: %w", err)
	}
	return exists, nil
}

// EmailExists checks whether a student already uses email
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}
