package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/helpers"
)

// StudentService serves the student listing and the per-student views
type StudentService struct {
	students   StudentStore
	marks      MarksStore
	attendance AttendanceStore
	fees       FeeStore
	reports    ReportStore
	logger     zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, marks MarksStore, attendance AttendanceStore, fees FeeStore, reports ReportStore, logger zerolog.Logger) *StudentService {
	return &StudentService{
		students:   students,
		marks:      marks,
		attendance: attendance,
		fees:       fees,
		reports:    reports,
		logger:     logger,
	}
}

// List returns one page of students whose name or identifier contains search. rawPage is
// parsed leniently and clamped into the valid range.
func (s *StudentService) List(ctx context.Context, search, rawPage string) (*dto.StudentListResponse, error) {
	total, err := s.students.CountSearch(ctx, search)
	if err != nil {
		return nil, err
	}

	page := helpers.ClampPage(helpers.ParsePageNumber(rawPage), helpers.StudentPageSize, total)

	items := []dto.StudentItem{}
	if total > 0 {
		students, err := s.students.Search(ctx, search, uint64(page.Size), page.Offset())
		if err != nil {
			return nil, err
		}
		for _, st := range students {
			items = append(items, toStudentItem(st))
		}
	}

	return &dto.StudentListResponse{
		Students:   items,
		TotalCount: total,
		Search:     search,
		Pagination: dto.PaginationInfo{
			CurrentPage: page.Number,
			PageSize:    page.Size,
			TotalItems:  page.TotalItems,
			TotalPages:  page.TotalPages,
			HasNext:     page.HasNext(),
			HasPrevious: page.HasPrevious(),
		},
	}, nil
}

// Get loads a student by identifier
func (s *StudentService) Get(ctx context.Context, identifier string) (*models.Student, error) {
	return s.students.GetByIdentifier(ctx, identifier)
}

func (s *StudentService) rank(ctx context.Context, studentID int64) (total, rank int, err error) {
	totals, err := s.reports.StudentTotals(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to rank students: %w", err)
	}
	total, rank = RankOf(RankStudents(totals), studentID)
	return total, rank, nil
}

func (s *StudentService) attendancePercentage(ctx context.Context, studentID int64) (float64, error) {
	present, total, err := s.attendance.CountByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return helpers.Percentage(float64(present), float64(total)), nil
}

// SummaryFor computes total marks, rank and attendance percentage of a loaded student.
func (s *StudentService) SummaryFor(ctx context.Context, student *models.Student) (dto.StudentSummary, error) {
	total, rank, err := s.rank(ctx, student.ID)
	if err != nil {
		return dto.StudentSummary{}, err
	}
	pct, err := s.attendancePercentage(ctx, student.ID)
	if err != nil {
		return dto.StudentSummary{}, err
	}
	return dto.StudentSummary{TotalMarks: total, Rank: rank, AttendancePercentage: pct}, nil
}

// Detail returns the profile page of a student
func (s *StudentService) Detail(ctx context.Context, identifier string) (*dto.StudentDetailResponse, error) {
	student, err := s.students.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	summary, err := s.SummaryFor(ctx, student)
	if err != nil {
		return nil, err
	}
	return &dto.StudentDetailResponse{Student: toStudentItem(student), Summary: summary}, nil
}

// Marks returns a student's marks with total and rank
func (s *StudentService) Marks(ctx context.Context, identifier string) (*dto.StudentMarksResponse, error) {
	student, err := s.students.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	total, rank, err := s.rank(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return &dto.StudentMarksResponse{
		Student:    toStudentItem(student),
		Marks:      toMarkItems(marks),
		TotalMarks: total,
		Rank:       rank,
	}, nil
}

// Attendance returns a student's attendance days, newest first, with counts
func (s *StudentService) Attendance(ctx context.Context, identifier string) (*dto.StudentAttendanceResponse, error) {
	student, err := s.students.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	days, err := s.attendance.ListByStudent(ctx, student.ID, 0)
	if err != nil {
		return nil, err
	}

	present := 0
	for _, d := range days {
		if d.IsPresent {
			present++
		}
	}
	return &dto.StudentAttendanceResponse{
		Student:    toStudentItem(student),
		Records:    toAttendanceItems(days),
		Present:    present,
		Absent:     len(days) - present,
		Percentage: helpers.Percentage(float64(present), float64(len(days))),
	}, nil
}

// Fees returns a student's fee records with totals
func (s *StudentService) Fees(ctx context.Context, identifier string) (*dto.StudentFeesResponse, error) {
	student, err := s.students.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	fees, err := s.fees.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentFeesResponse{
		Student:          toStudentItem(student),
		Records:          toFeeItems(fees),
		TotalDue:         decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for i := range fees {
		resp.TotalDue = resp.TotalDue.Add(fees[i].AmountDue)
		resp.TotalPaid = resp.TotalPaid.Add(fees[i].AmountPaid)
		resp.TotalOutstanding = resp.TotalOutstanding.Add(fees[i].Outstanding())
	}
	return resp, nil
}

// AttendanceChart returns present/absent counts of a student in chart form
func (s *StudentService) AttendanceChart(ctx context.Context, studentID int64) (*dto.AttendanceChart, error) {
	present, total, err := s.attendance.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.AttendanceChart{
		Labels: []string{"Present", "Absent"},
		Data:   []int{present, total - present},
	}, nil
}
