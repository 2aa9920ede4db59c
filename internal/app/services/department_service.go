package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

const maxCatalogNameLength = 100

func validateCatalogName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError(kind + " name cannot be empty")
	}
	if len(name) > maxCatalogNameLength {
		return "", apperrors.NewValidationError(kind + " name is too long")
	}
	return name, nil
}

// DepartmentService handles department-related operations
type DepartmentService struct {
	departments DepartmentStore
	logger      zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departments DepartmentStore, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{departments: departments, logger: logger}
}

// Create adds a department. Names are unique.
func (s *DepartmentService) Create(ctx context.Context, name string) (*dto.DepartmentResponse, error) {
	name, err := validateCatalogName("department", name)
	if err != nil {
		return nil, err
	}
	dept := &models.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("departmentID", dept.ID).Str("name", dept.Name).Msg("Department created")
	return &dto.DepartmentResponse{ID: dept.ID, Name: dept.Name}, nil
}

// List returns all departments ordered by name
func (s *DepartmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := s.departments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, dto.DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

// SubjectService handles subject-related operations
type SubjectService struct {
	subjects SubjectStore
	logger   zerolog.Logger
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(subjects SubjectStore, logger zerolog.Logger) *SubjectService {
	return &SubjectService{subjects: subjects, logger: logger}
}

// Create adds a subject. Names are unique.
func (s *SubjectService) Create(ctx context.Context, name string) (*dto.SubjectResponse, error) {
	name, err := validateCatalogName("subject", name)
	if err != nil {
		return nil, err
	}
	subject := &models.Subject{Name: name}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("subjectID", subject.ID).Str("name", subject.Name).Msg("Subject created")
	return &dto.SubjectResponse{ID: subject.ID, Name: subject.Name}, nil
}

// List returns all subjects ordered by name
func (s *SubjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, sub := range subjects {
		out = append(out, dto.SubjectResponse{ID: sub.ID, Name: sub.Name})
	}
	return out, nil
}
