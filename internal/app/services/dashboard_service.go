package services

import (
	"context"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
)

const (
	dashboardTopStudents = 5
	dashboardRecentDays  = 10
)

// DashboardService assembles the role dashboards
type DashboardService struct {
	studentService *StudentService
	reportService  *ReportService
	students       StudentStore
	departments    DepartmentStore
	subjects       SubjectStore
	marks          MarksStore
	attendance     AttendanceStore
	fees           FeeStore
	logger         zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	studentService *StudentService,
	reportService *ReportService,
	students StudentStore,
	departments DepartmentStore,
	subjects SubjectStore,
	marks MarksStore,
	attendance AttendanceStore,
	fees FeeStore,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		studentService: studentService,
		reportService:  reportService,
		students:       students,
		departments:    departments,
		subjects:       subjects,
		marks:          marks,
		attendance:     attendance,
		fees:           fees,
		logger:         logger,
	}
}

// Staff builds the staff dashboard
func (s *DashboardService) Staff(ctx context.Context) (*dto.StaffDashboard, error) {
	out := &dto.StaffDashboard{}
	var err error

	if out.StudentCount, err = s.students.Count(ctx); err != nil {
		return nil, err
	}
	if out.DepartmentCount, err = s.departments.Count(ctx); err != nil {
		return nil, err
	}
	if out.SubjectCount, err = s.subjects.Count(ctx); err != nil {
		return nil, err
	}

	board, err := s.reportService.Leaderboard(ctx, dashboardTopStudents)
	if err != nil {
		return nil, err
	}
	out.TopStudents = board.Entries

	counts, err := s.fees.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	out.FeeStatus = dto.FeeStatusCounts{
		Paid:    counts[models.FeeStatusPaid],
		Pending: counts[models.FeeStatusPending],
		Late:    counts[models.FeeStatusLate],
	}

	if out.TotalOutstanding, err = s.fees.TotalOutstanding(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ForStudent builds the dashboard of ref as seen by viewer (a student or a parent).
func (s *DashboardService) ForStudent(ctx context.Context, ref appauth.StudentRef, viewer models.ProfileRole) (*dto.StudentDashboard, error) {
	student, err := s.students.GetByID(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	summary, err := s.studentService.SummaryFor(ctx, student)
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	days, err := s.attendance.ListByStudent(ctx, student.ID, dashboardRecentDays)
	if err != nil {
		return nil, err
	}
	fees, err := s.fees.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentDashboard{
		Viewer:           string(viewer),
		Student:          toStudentItem(student),
		Summary:          summary,
		Marks:            toMarkItems(marks),
		RecentAttendance: toAttendanceItems(days),
		Fees:             toFeeItems(fees),
	}, nil
}
