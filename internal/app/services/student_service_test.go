package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

func seedStudents(s *stores, n int) {
	for i := 1; i <= n; i++ {
		s.addStudent(fmt.Sprintf("STU-%04d", i), fmt.Sprintf("Student %02d", i), "Science")
	}
}

func TestList_SearchMatchesNameOrIdentifier(t *testing.T) {
	s := newStores()
	s.addStudent("STU-0001", "Alice Smith", "Science")
	s.addStudent("ALI-0002", "Bob Jones", "Science")
	s.addStudent("STU-0003", "Carol King", "Arts")

	resp, err := s.studentService().List(context.Background(), "ALI", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, "ALI", resp.Search)
	require.Len(t, resp.Students, 2)
	assert.Equal(t, "Alice Smith", resp.Students[0].Name)
	assert.Equal(t, "ALI-0002", resp.Students[1].Identifier)

	resp, err = s.studentService().List(context.Background(), "king", "")
	require.NoError(t, err)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "Arts", resp.Students[0].Department)
}

func TestList_PageClamping(t *testing.T) {
	s := newStores()
	seedStudents(s, 25)
	svc := s.studentService()

	tests := []struct {
		raw      string
		wantPage int
		wantLen  int
	}{
		{"1", 1, 10},
		{"3", 3, 5},
		{"99", 3, 5},
		{"0", 1, 10},
		{"-4", 1, 10},
		{"abc", 1, 10},
		{"", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			resp, err := svc.List(context.Background(), "", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, resp.Pagination.CurrentPage)
			assert.Equal(t, 3, resp.Pagination.TotalPages)
			assert.Len(t, resp.Students, tt.wantLen)
		})
	}
}

func TestList_NoMatchesIsOneEmptyPage(t *testing.T) {
	s := newStores()
	seedStudents(s, 3)

	resp, err := s.studentService().List(context.Background(), "nobody", "5")
	require.NoError(t, err)
	assert.Empty(t, resp.Students)
	assert.Equal(t, int64(0), resp.TotalCount)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrevious)
}

func addDays(s *stores, st *models.Student, present, absent int) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < present+absent; i++ {
		a := &models.Attendance{StudentID: st.ID, Date: day.AddDate(0, 0, i), IsPresent: i < present}
		if err := s.attendance.Upsert(context.Background(), a); err != nil {
			panic(err)
		}
	}
}

func TestDetail_SummaryAndAttendance(t *testing.T) {
	s := newStores()
	math := s.addSubject("Math")
	a := s.addStudent("STU-0001", "Alice", "Science")
	b := s.addStudent("STU-0002", "Bob", "Science")
	s.setMarks(a, math, 40)
	s.setMarks(b, math, 80)
	addDays(s, a, 7, 3)

	detail, err := s.studentService().Detail(context.Background(), "STU-0001")
	require.NoError(t, err)
	assert.Equal(t, 40, detail.Summary.TotalMarks)
	assert.Equal(t, 2, detail.Summary.Rank)
	assert.Equal(t, 70.0, detail.Summary.AttendancePercentage)

	detail, err = s.studentService().Detail(context.Background(), "STU-0002")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Summary.Rank)
	assert.Equal(t, 0.0, detail.Summary.AttendancePercentage)

	_, err = s.studentService().Detail(context.Background(), "STU-9999")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestAttendanceViewsAndChart(t *testing.T) {
	s := newStores()
	a := s.addStudent("STU-0001", "Alice", "Science")
	addDays(s, a, 2, 1)

	view, err := s.studentService().Attendance(context.Background(), "STU-0001")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Present)
	assert.Equal(t, 1, view.Absent)
	assert.Equal(t, 66.67, view.Percentage)
	require.Len(t, view.Records, 3)
	assert.Equal(t, "2025-01-03", view.Records[0].Date)

	chart, err := s.studentService().AttendanceChart(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Present", "Absent"}, chart.Labels)
	assert.Equal(t, []int{2, 1}, chart.Data)
}

func TestMarksView(t *testing.T) {
	s := newStores()
	math, bio := s.addSubject("Math"), s.addSubject("Biology")
	a := s.addStudent("STU-0001", "Alice", "Science")
	s.setMarks(a, math, 60)
	s.setMarks(a, bio, 30)

	view, err := s.studentService().Marks(context.Background(), "STU-0001")
	require.NoError(t, err)
	assert.Equal(t, 90, view.TotalMarks)
	assert.Equal(t, 1, view.Rank)
	require.Len(t, view.Marks, 2)
	assert.Equal(t, "Biology", view.Marks[0].SubjectName)
}

func TestFeesView(t *testing.T) {
	s := newStores()
	a := s.addStudent("STU-0001", "Alice", "Science")
	ctx := context.Background()
	require.NoError(t, s.fees.Create(ctx, &models.FeeRecord{
		StudentID: a.ID, DueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		AmountDue: decimal.RequireFromString("100.00"), AmountPaid: decimal.RequireFromString("40.00"), Status: models.FeeStatusLate,
	}))
	require.NoError(t, s.fees.Create(ctx, &models.FeeRecord{
		StudentID: a.ID, DueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		AmountDue: decimal.RequireFromString("50.00"), AmountPaid: decimal.RequireFromString("60.00"), Status: models.FeeStatusPaid,
	}))

	view, err := s.studentService().Fees(ctx, "STU-0001")
	require.NoError(t, err)
	require.Len(t, view.Records, 2)
	assert.Equal(t, "2025-02-01", view.Records[0].DueDate)
	assert.True(t, view.TotalDue.Equal(decimal.RequireFromString("150")))
	assert.True(t, view.TotalPaid.Equal(decimal.RequireFromString("100")))
	assert.True(t, view.TotalOutstanding.Equal(decimal.RequireFromString("60")))
}
