package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	catalog
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{catalog{
		db:         db,
		sb:         statementBuilder(),
		table:      "subjects",
		uniqueName: "subjects_name_key",
		errExists:  apperrors.ErrSubjectAlreadyExists,
		errMissing: apperrors.ErrSubjectNotFound,
	}}
}

// Create creates a new subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	id, err := r.create(ctx, subject.Name)
	if err != nil {
		return err
	}
	subject.ID = id
	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	row, err := r.get(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	return &models.Subject{ID: row.ID, Name: row.Name}, nil
}

// GetOrCreate returns the subject named name, creating it when missing.
func (r *SubjectRepository) GetOrCreate(ctx context.Context, name string) (*models.Subject, bool, error) {
	row, created, err := r.getOrCreate(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return &models.Subject{ID: row.ID, Name: row.Name}, created, nil
}

// GetAll retrieves all subjects ordered by name
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	rows, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	subjects := make([]*models.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, &models.Subject{ID: row.ID, Name: row.Name})
	}
	return subjects, nil
}

// Count returns the number of subjects
func (r *SubjectRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}
