package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestUpsertMarks_NeverDuplicates(t *testing.T) {
	s := newStores()
	svc := s.recordsService()
	math := s.addSubject("Math")
	s.addStudent("STU-0001", "Alice", "Science")

	_, err := svc.UpsertMarks(context.Background(), &dto.UpsertMarksRequest{StudentIdentifier: "STU-0001", SubjectID: math.ID, Marks: intPtr(40)})
	require.NoError(t, err)
	item, err := svc.UpsertMarks(context.Background(), &dto.UpsertMarksRequest{StudentIdentifier: "STU-0001", SubjectID: math.ID, Marks: intPtr(75)})
	require.NoError(t, err)

	assert.Equal(t, 75, item.Marks)
	require.Len(t, s.db.marks, 1)
	assert.Equal(t, 75, s.db.marks[0].Marks)

	_, err = svc.UpsertMarks(context.Background(), &dto.UpsertMarksRequest{StudentIdentifier: "STU-0001", SubjectID: math.ID, Marks: intPtr(-1)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UpsertMarks(context.Background(), &dto.UpsertMarksRequest{StudentIdentifier: "STU-0001", SubjectID: 999, Marks: intPtr(5)})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestUpsertAttendance(t *testing.T) {
	s := newStores()
	svc := s.recordsService()
	s.addStudent("STU-0001", "Alice", "Science")

	_, err := svc.UpsertAttendance(context.Background(), &dto.UpsertAttendanceRequest{StudentIdentifier: "STU-0001", Date: "2025-03-01", IsPresent: boolPtr(false)})
	require.NoError(t, err)
	item, err := svc.UpsertAttendance(context.Background(), &dto.UpsertAttendanceRequest{StudentIdentifier: "STU-0001", Date: "2025-03-01", IsPresent: boolPtr(true)})
	require.NoError(t, err)

	assert.True(t, item.IsPresent)
	assert.Len(t, s.db.attendance, 1)

	_, err = svc.UpsertAttendance(context.Background(), &dto.UpsertAttendanceRequest{StudentIdentifier: "STU-0001", Date: "03/01/2025", IsPresent: boolPtr(true)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateStudent(t *testing.T) {
	s := newStores()
	svc := s.recordsService()
	dept := &models.Department{Name: "Science"}
	require.NoError(t, s.departments.Create(context.Background(), dept))

	item, err := svc.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		Identifier: "STU-0100", DepartmentID: dept.ID, Name: "Dana", Email: "dana@school.test", Address: "1 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, 18, item.Age)
	assert.Equal(t, "Science", item.Department)

	_, err = svc.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		Identifier: "STU-0100", DepartmentID: dept.ID, Name: "Eve", Email: "eve@school.test",
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)

	_, err = svc.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		Identifier: "STU-0101", DepartmentID: 404, Name: "Eve", Email: "eve@school.test",
	})
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	assert.Len(t, s.db.students, 1)
}

func TestFeesKeepManualStatus(t *testing.T) {
	s := newStores()
	svc := s.recordsService()
	s.addStudent("STU-0001", "Alice", "Science")

	fee, err := svc.CreateFee(context.Background(), &dto.CreateFeeRequest{StudentIdentifier: "STU-0001", DueDate: "2025-04-01", AmountDue: decimal.RequireFromString("250.00")})
	require.NoError(t, err)
	assert.Equal(t, "pending", fee.Status)

	// A partial payment marked as paid stays paid.
	paid, err := svc.RecordPayment(context.Background(), fee.ID, &dto.RecordPaymentRequest{
		AmountPaid: decimal.RequireFromString("100.00"), Status: "paid", PaymentDate: "2025-04-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2025-04-02", *paid.PaymentDate)
	assert.True(t, paid.Outstanding.Equal(decimal.RequireFromString("150")))

	_, err = svc.RecordPayment(context.Background(), fee.ID, &dto.RecordPaymentRequest{AmountPaid: decimal.Zero, Status: "overdue"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.RecordPayment(context.Background(), 12345, &dto.RecordPaymentRequest{AmountPaid: decimal.Zero, Status: "late"})
	assert.ErrorIs(t, err, apperrors.ErrFeeRecordNotFound)

	_, err = svc.CreateFee(context.Background(), &dto.CreateFeeRequest{StudentIdentifier: "STU-0001", AmountDue: decimal.RequireFromString("-1")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLinkProfile(t *testing.T) {
	s := newStores()
	svc := s.recordsService()
	s.addStudent("STU-0001", "Alice", "Science")
	user := &models.User{Username: "alice", IsActive: true}
	require.NoError(t, s.users.Create(context.Background(), user))
	other := &models.User{Username: "mallory", IsActive: true}
	require.NoError(t, s.users.Create(context.Background(), other))

	_, err := svc.LinkProfile(context.Background(), &dto.LinkProfileRequest{Username: "alice", Role: "student"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := svc.LinkProfile(context.Background(), &dto.LinkProfileRequest{Username: "alice", Role: "student", StudentIdentifier: "STU-0001"})
	require.NoError(t, err)
	assert.Equal(t, "STU-0001", resp.StudentIdentifier)

	_, err = svc.LinkProfile(context.Background(), &dto.LinkProfileRequest{Username: "mallory", Role: "student", StudentIdentifier: "STU-0001"})
	assert.ErrorIs(t, err, apperrors.ErrStudentAlreadyLinked)

	resp, err = svc.LinkProfile(context.Background(), &dto.LinkProfileRequest{Username: "mallory", Role: "parent", RelatedStudentIdentifier: "STU-0001"})
	require.NoError(t, err)
	assert.Equal(t, "STU-0001", resp.RelatedStudentIdentifier)

	_, err = svc.LinkProfile(context.Background(), &dto.LinkProfileRequest{Username: "ghost", Role: "staff"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	role, err := s.resolver().ResolveRole(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, role.Name())
}

func TestCatalogServices(t *testing.T) {
	s := newStores()
	depts := NewDepartmentService(s.departments, zerolog.Nop())
	subs := NewSubjectService(s.subjects, zerolog.Nop())

	_, err := depts.Create(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = depts.Create(context.Background(), "Physics")
	require.NoError(t, err)
	_, err = depts.Create(context.Background(), "Physics")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentAlreadyExists)

	_, err = subs.Create(context.Background(), "Maths")
	require.NoError(t, err)
	_, err = subs.Create(context.Background(), "Biology")
	require.NoError(t, err)
	list, err := subs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Biology", list[0].Name)
}
