package dto

import "github.com/shopspring/decimal"

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Identifier string  `json:"identifier"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	TotalMarks int     `json:"totalMarks"`
	Percentage float64 `json:"percentage"`
}

// LeaderboardResponse is the view-model of the leaderboard page.
type LeaderboardResponse struct {
	Entries      []LeaderboardEntry `json:"entries"`
	SubjectCount int                `json:"subjectCount"`
}

// SubjectAnalytics holds the score statistics of one subject.
type SubjectAnalytics struct {
	SubjectID int64   `json:"subjectId"`
	Subject   string  `json:"subject"`
	Average   float64 `json:"average"`
	Max       int     `json:"max"`
	Min       int     `json:"min"`
	Total     int     `json:"total"`
	Fail      int     `json:"fail"`
	PassRate  float64 `json:"passRate"`
}

// SubjectAnalyticsResponse is the view-model of the subject analytics page.
type SubjectAnalyticsResponse struct {
	Subjects []SubjectAnalytics `json:"subjects"`
}

// AttendanceChart is served without the envelope so chart widgets can consume it directly.
type AttendanceChart struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// FeeStatusCounts counts fee records by status.
type FeeStatusCounts struct {
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
	Late    int64 `json:"late"`
}

// StaffDashboard is the view-model of the staff dashboard.
type StaffDashboard struct {
	StudentCount     int64              `json:"studentCount"`
	DepartmentCount  int64              `json:"departmentCount"`
	SubjectCount     int64              `json:"subjectCount"`
	TopStudents      []LeaderboardEntry `json:"topStudents"`
	FeeStatus        FeeStatusCounts    `json:"feeStatus"`
	TotalOutstanding decimal.Decimal    `json:"totalOutstanding"`
}

// StudentDashboard is the view-model of the student and parent dashboards.
type StudentDashboard struct {
	Viewer           string           `json:"viewer" enums:"student,parent"`
	Student          StudentItem      `json:"student"`
	Summary          StudentSummary   `json:"summary"`
	Marks            []MarkItem       `json:"marks"`
	RecentAttendance []AttendanceItem `json:"recentAttendance"`
	Fees             []FeeItem        `json:"fees"`
}
