package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/helpers"
	"github.com/yigit/schoolms/internal/pkg/validation"
)

// RecordsService performs the staff-only writes: students, marks, attendance, fees and role
// bindings.
type RecordsService struct {
	users       UserStore
	profiles    ProfileStore
	departments DepartmentStore
	subjects    SubjectStore
	students    StudentStore
	marks       MarksStore
	attendance  AttendanceStore
	fees        FeeStore
	logger      zerolog.Logger
}

// NewRecordsService creates a new RecordsService
func NewRecordsService(
	users UserStore,
	profiles ProfileStore,
	departments DepartmentStore,
	subjects SubjectStore,
	students StudentStore,
	marks MarksStore,
	attendance AttendanceStore,
	fees FeeStore,
	logger zerolog.Logger,
) *RecordsService {
	return &RecordsService{
		users:       users,
		profiles:    profiles,
		departments: departments,
		subjects:    subjects,
		students:    students,
		marks:       marks,
		attendance:  attendance,
		fees:        fees,
		logger:      logger,
	}
}

// CreateStudent creates a student together with its identifier. A duplicate identifier or
// email leaves nothing behind.
func (s *RecordsService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentItem, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if !validation.CompiledPatterns.Identifier.MatchString(identifier) {
		return nil, apperrors.NewValidationError("invalid student identifier")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("student name cannot be empty")
	}
	if req.Age < 0 {
		return nil, apperrors.NewValidationError("age must not be negative")
	}

	dept, err := s.departments.GetByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		DepartmentID: dept.ID,
		Identifier:   identifier,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Age:          req.Age,
		Address:      req.Address,
		Department:   dept,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("identifier", student.Identifier).Int64("studentID", student.ID).Msg("Student created")
	item := toStudentItem(student)
	return &item, nil
}

// UpsertMarks sets the marks of a student in a subject. Writing the same pair again updates
// the existing row.
func (s *RecordsService) UpsertMarks(ctx context.Context, req *dto.UpsertMarksRequest) (*dto.MarkItem, error) {
	if req.Marks == nil || *req.Marks < 0 {
		return nil, apperrors.NewValidationError("marks must be zero or more")
	}

	student, err := s.students.GetByIdentifier(ctx, req.StudentIdentifier)
	if err != nil {
		return nil, err
	}
	subject, err := s.subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	mark := &models.SubjectMark{StudentID: student.ID, SubjectID: subject.ID, SubjectName: subject.Name, Marks: *req.Marks}
	if err := s.marks.Upsert(ctx, mark); err != nil {
		return nil, err
	}
	return &dto.MarkItem{SubjectID: subject.ID, SubjectName: subject.Name, Marks: mark.Marks}, nil
}

// UpsertAttendance records presence of a student for a day
func (s *RecordsService) UpsertAttendance(ctx context.Context, req *dto.UpsertAttendanceRequest) (*dto.AttendanceItem, error) {
	if req.IsPresent == nil {
		return nil, apperrors.NewValidationError("isPresent is required")
	}
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be YYYY-MM-DD")
	}

	student, err := s.students.GetByIdentifier(ctx, req.StudentIdentifier)
	if err != nil {
		return nil, err
	}

	day := &models.Attendance{StudentID: student.ID, Date: date, IsPresent: *req.IsPresent}
	if err := s.attendance.Upsert(ctx, day); err != nil {
		return nil, err
	}
	item := toAttendanceItem(*day)
	return &item, nil
}

// CreateFee creates a pending fee obligation. The due date defaults to today.
func (s *RecordsService) CreateFee(ctx context.Context, req *dto.CreateFeeRequest) (*dto.FeeItem, error) {
	if req.AmountDue.IsNegative() {
		return nil, apperrors.NewValidationError("amountDue must not be negative")
	}

	due := helpers.Today()
	if req.DueDate != "" {
		parsed, err := helpers.ParseDate(req.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError("dueDate must be YYYY-MM-DD")
		}
		due = parsed
	}

	student, err := s.students.GetByIdentifier(ctx, req.StudentIdentifier)
	if err != nil {
		return nil, err
	}

	fee := &models.FeeRecord{
		StudentID: student.ID,
		DueDate:   due,
		AmountDue: req.AmountDue.Round(2),
		Status:    models.FeeStatusPending,
	}
	if err := s.fees.Create(ctx, fee); err != nil {
		return nil, err
	}
	item := toFeeItem(fee)
	return &item, nil
}

// RecordPayment stores amount paid, status and payment date exactly as supplied; the status
// is never derived from the amounts.
func (s *RecordsService) RecordPayment(ctx context.Context, feeID int64, req *dto.RecordPaymentRequest) (*dto.FeeItem, error) {
	status := models.FeeStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of: paid, pending, late")
	}
	if req.AmountPaid.IsNegative() {
		return nil, apperrors.NewValidationError("amountPaid must not be negative")
	}

	var paymentDate *time.Time
	if req.PaymentDate != "" {
		parsed, err := helpers.ParseDate(req.PaymentDate)
		if err != nil {
			return nil, apperrors.NewValidationError("paymentDate must be YYYY-MM-DD")
		}
		paymentDate = &parsed
	}

	fee, err := s.fees.RecordPayment(ctx, feeID, req.AmountPaid.Round(2), status, paymentDate)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("feeID", fee.ID).Str("status", string(fee.Status)).Msg("Payment recorded")
	item := toFeeItem(fee)
	return &item, nil
}

// LinkProfile binds a user to a role. A student profile needs the student's own identifier,
// a parent profile the identifier of the related student.
func (s *RecordsService) LinkProfile(ctx context.Context, req *dto.LinkProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, err
	}

	profile := &models.Profile{UserID: user.ID, Role: models.ProfileRole(req.Role)}
	resp := &dto.ProfileResponse{Username: user.Username, Role: req.Role}

	switch profile.Role {
	case models.RoleStaff:
	case models.RoleStudent:
		if req.StudentIdentifier == "" {
			return nil, apperrors.NewValidationError("a student profile requires studentIdentifier")
		}
		student, err := s.students.GetByIdentifier(ctx, req.StudentIdentifier)
		if err != nil {
			return nil, err
		}
		profile.StudentID = &student.ID
		resp.StudentIdentifier = student.Identifier
	case models.RoleParent:
		if req.RelatedStudentIdentifier == "" {
			return nil, apperrors.NewValidationError("a parent profile requires relatedStudentIdentifier")
		}
		student, err := s.students.GetByIdentifier(ctx, req.RelatedStudentIdentifier)
		if err != nil {
			return nil, err
		}
		profile.RelatedStudentID = &student.ID
		resp.RelatedStudentIdentifier = student.Identifier
	default:
		return nil, apperrors.NewValidationError("role must be one of: staff, student, parent")
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", user.Username).Str("role", req.Role).Msg("Profile linked")
	return resp, nil
}
