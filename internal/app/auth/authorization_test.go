package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

type stubProfiles map[int64]*models.Profile

func (s stubProfiles) GetByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	p, ok := s[userID]
	if !ok {
		return nil, apperrors.ErrNoProfile
	}
	return p, nil
}

type stubStudents map[int64]*models.Student

func (s stubStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return st, nil
}

func ptr(v int64) *int64 { return &v }

func newResolver() *AuthorizationService {
	profiles := stubProfiles{
		1: {UserID: 1, Role: models.RoleStaff},
		2: {UserID: 2, Role: models.RoleStudent, StudentID: ptr(10)},
		3: {UserID: 3, Role: models.RoleParent, RelatedStudentID: ptr(10)},
		4: {UserID: 4, Role: models.RoleStudent},
		5: {UserID: 5, Role: models.RoleParent},
		6: {UserID: 6, Role: "janitor"},
		7: {UserID: 7, Role: models.RoleStudent, StudentID: ptr(99)},
	}
	students := stubStudents{10: {ID: 10, Identifier: "STU-0010"}}
	return NewAuthorizationService(profiles, students)
}

func TestResolveRole(t *testing.T) {
	svc := newResolver()
	ctx := context.Background()

	role, err := svc.ResolveRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Staff{}, role)

	role, err = svc.ResolveRole(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Student{Self: StudentRef{ID: 10, Identifier: "STU-0010"}}, role)

	role, err = svc.ResolveRole(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, Parent{Child: StudentRef{ID: 10, Identifier: "STU-0010"}}, role)
}

func TestResolveRole_NoProfile(t *testing.T) {
	svc := newResolver()
	for _, userID := range []int64{4, 5, 6, 7, 42} {
		_, err := svc.ResolveRole(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrNoProfile, "user %d", userID)
	}
}

func TestAccessChecks(t *testing.T) {
	staff := Staff{}
	student := Student{Self: StudentRef{ID: 10, Identifier: "STU-0010"}}
	parent := Parent{Child: StudentRef{ID: 11, Identifier: "STU-0011"}}

	assert.NoError(t, CanListStudents(staff))
	assert.ErrorIs(t, CanListStudents(student), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, CanListStudents(parent), apperrors.ErrPermissionDenied)

	assert.NoError(t, CanViewStudent(staff, "STU-9999"))
	assert.NoError(t, CanViewStudent(student, "STU-0010"))
	assert.ErrorIs(t, CanViewStudent(student, "STU-0011"), apperrors.ErrPermissionDenied)
	assert.NoError(t, CanViewStudent(parent, "STU-0011"))
	assert.ErrorIs(t, CanViewStudent(parent, "STU-0010"), apperrors.ErrPermissionDenied)

	ref, err := ChartStudent(student)
	require.NoError(t, err)
	assert.Equal(t, int64(10), ref.ID)
	_, err = ChartStudent(staff)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = ChartStudent(parent)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	assert.NoError(t, CanManageRecords(staff))
	assert.Error(t, CanManageRecords(parent))
}

func TestDashboardPathAndHasRole(t *testing.T) {
	assert.Equal(t, "/dashboard/staff", DashboardPath(Staff{}))
	assert.Equal(t, "/dashboard/student", DashboardPath(Student{}))
	assert.Equal(t, "/dashboard/parent", DashboardPath(Parent{}))

	assert.True(t, HasRole(Parent{}, models.RoleParent))
	assert.False(t, HasRole(Staff{}, models.RoleParent))
	assert.False(t, HasRole(nil, models.RoleStaff))

	ref, ok := LinkedStudent(Parent{Child: StudentRef{Identifier: "X"}})
	assert.True(t, ok)
	assert.Equal(t, "X", ref.Identifier)
	_, ok = LinkedStudent(Staff{})
	assert.False(t, ok)
}
