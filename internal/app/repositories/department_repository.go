package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	catalog
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{catalog{
		db:         db,
		sb:         statementBuilder(),
		table:      "departments",
		uniqueName: "departments_name_key",
		errExists:  apperrors.ErrDepartmentAlreadyExists,
		errMissing: apperrors.ErrDepartmentNotFound,
	}}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	id, err := r.create(ctx, department.Name)
	if err != nil {
		return err
	}
	department.ID = id
	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	row, err := r.get(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	return &models.Department{ID: row.ID, Name: row.Name}, nil
}

// GetOrCreate returns the department named name, creating it when missing.
func (r *DepartmentRepository) GetOrCreate(ctx context.Context, name string) (*models.Department, bool, error) {
	row, created, err := r.getOrCreate(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return &models.Department{ID: row.ID, Name: row.Name}, created, nil
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	rows, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	departments := make([]*models.Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, &models.Department{ID: row.ID, Name: row.Name})
	}
	return departments, nil
}

// Count returns the number of departments
func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}
