package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// Messages shown when access is refused
const (
	MsgNoPermission = "You do not have permission to view this page."
	MsgAccessDenied = "Access denied."
	MsgNoRole       = "No role has been assigned to this account. Contact an administrator."
)

// StudentRef identifies the student a role is bound to.
type StudentRef struct {
	ID         int64
	Identifier string
}

// Role is the resolved role of an authenticated user. The set of implementations is closed:
// Staff, Student and Parent.
type Role interface {
	Name() models.ProfileRole
	sealed()
}

// Staff may see every record.
type Staff struct{}

// Student may see its own record.
type Student struct {
	Self StudentRef
}

// Parent may see the record of its related student.
type Parent struct {
	Child StudentRef
}

func (Staff) Name() models.ProfileRole   { return models.RoleStaff }
func (Student) Name() models.ProfileRole { return models.RoleStudent }
func (Parent) Name() models.ProfileRole  { return models.RoleParent }

func (Staff) sealed()   {}
func (Student) sealed() {}
func (Parent) sealed()  {}

// ProfileStore loads role bindings
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

// StudentStore loads students
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// AuthorizationService resolves users to roles and answers access questions
type AuthorizationService struct {
	profiles ProfileStore
	students StudentStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(profiles ProfileStore, students StudentStore) *AuthorizationService {
	return &AuthorizationService{profiles: profiles, students: students}
}

// ResolveRole loads the profile of userID and turns it into a Role. A missing profile, an
// unknown role or a student/parent profile without its student yields ErrNoProfile.
func (s *AuthorizationService) ResolveRole(ctx context.Context, userID int64) (Role, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoProfile) {
			return nil, apperrors.ErrNoProfile
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	switch profile.Role {
	case models.RoleStaff:
		return Staff{}, nil
	case models.RoleStudent:
		ref, err := s.studentRef(ctx, profile.StudentID)
		if err != nil {
			return nil, err
		}
		return Student{Self: ref}, nil
	case models.RoleParent:
		ref, err := s.studentRef(ctx, profile.RelatedStudentID)
		if err != nil {
			return nil, err
		}
		return Parent{Child: ref}, nil
	default:
		logger.Warn().Int64("userID", userID).Str("role", string(profile.Role)).Msg("Profile has unknown role")
		return nil, apperrors.ErrNoProfile
	}
}

func (s *AuthorizationService) studentRef(ctx context.Context, id *int64) (StudentRef, error) {
	if id == nil {
		return StudentRef{}, apperrors.ErrNoProfile
	}
	student, err := s.students.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return StudentRef{}, apperrors.ErrNoProfile
		}
		return StudentRef{}, fmt.Errorf("failed to load linked student: %w", err)
	}
	return StudentRef{ID: student.ID, Identifier: student.Identifier}, nil
}

// LinkedStudent returns the student a role is bound to, if any.
func LinkedStudent(role Role) (StudentRef, bool) {
	switch r := role.(type) {
	case Staff:
		return StudentRef{}, false
	case Student:
		return r.Self, true
	case Parent:
		return r.Child, true
	default:
		return StudentRef{}, false
	}
}

// CanListStudents allows the student listing to staff only.
func CanListStudents(role Role) error {
	switch role.(type) {
	case Staff:
		return nil
	case Student, Parent:
		return apperrors.NewForbiddenError(MsgNoPermission)
	default:
		return apperrors.NewForbiddenError(MsgNoPermission)
	}
}

// CanViewStudent allows staff to view any student, a student its own record and a parent
// the record of its child.
func CanViewStudent(role Role, identifier string) error {
	switch r := role.(type) {
	case Staff:
		return nil
	case Student:
		if r.Self.Identifier == identifier {
			return nil
		}
	case Parent:
		if r.Child.Identifier == identifier {
			return nil
		}
	}
	return apperrors.NewForbiddenError(MsgNoPermission)
}

// CanManageRecords allows administrative writes to staff only.
func CanManageRecords(role Role) error {
	if _, ok := role.(Staff); ok {
		return nil
	}
	return apperrors.NewForbiddenError(MsgNoPermission)
}

// ChartStudent returns the student whose attendance chart the role may fetch. Only the
// student role has one.
func ChartStudent(role Role) (StudentRef, error) {
	switch r := role.(type) {
	case Student:
		return r.Self, nil
	case Staff, Parent:
		return StudentRef{}, apperrors.NewForbiddenError("Only students can view their attendance chart.")
	default:
		return StudentRef{}, apperrors.ErrPermissionDenied
	}
}

// DashboardPath is the dashboard URL of a role.
func DashboardPath(role Role) string {
	switch role.(type) {
	case Staff:
		return "/dashboard/staff"
	case Student:
		return "/dashboard/student"
	case Parent:
		return "/dashboard/parent"
	default:
		return "/login"
	}
}

// HasRole reports strict equality between the resolved role and want.
func HasRole(role Role, want models.ProfileRole) bool {
	return role != nil && role.Name() == want
}
