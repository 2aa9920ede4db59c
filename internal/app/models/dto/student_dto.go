package dto

import (
	"github.com/shopspring/decimal"
)

// StudentItem is a student row as shown on listings and profile pages.
type StudentItem struct {
	ID         int64  `json:"id"`
	Identifier string `json:"identifier" example:"STU-1234"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Address    string `json:"address"`
	Department string `json:"department"`
}

// StudentListResponse is the view-model of the staff student listing.
type StudentListResponse struct {
	Students   []StudentItem  `json:"students"`
	TotalCount int64          `json:"totalCount"`
	Search     string         `json:"search"`
	Pagination PaginationInfo `json:"pagination"`
}

// StudentSummary holds the aggregates of one student.
type StudentSummary struct {
	TotalMarks           int     `json:"totalMarks"`
	Rank                 int     `json:"rank"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// StudentDetailResponse is the view-model of a student profile page.
type StudentDetailResponse struct {
	Student StudentItem    `json:"student"`
	Summary StudentSummary `json:"summary"`
}

// MarkItem is one subject score.
type MarkItem struct {
	SubjectID   int64  `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Marks       int    `json:"marks"`
}

// StudentMarksResponse lists a student's marks with total and rank.
type StudentMarksResponse struct {
	Student    StudentItem `json:"student"`
	Marks      []MarkItem  `json:"marks"`
	TotalMarks int         `json:"totalMarks"`
	Rank       int         `json:"rank"`
}

// AttendanceItem is one attendance day.
type AttendanceItem struct {
	Date      string `json:"date" example:"2025-03-01"`
	IsPresent bool   `json:"isPresent"`
}

// StudentAttendanceResponse lists attendance days, newest first.
type StudentAttendanceResponse struct {
	Student    StudentItem      `json:"student"`
	Records    []AttendanceItem `json:"records"`
	Present    int              `json:"present"`
	Absent     int              `json:"absent"`
	Percentage float64          `json:"percentage"`
}

// FeeItem is one fee record.
type FeeItem struct {
	ID          int64           `json:"id"`
	DueDate     string          `json:"dueDate" example:"2025-04-01"`
	AmountDue   decimal.Decimal `json:"amountDue"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status" example:"pending" enums:"paid,pending,late"`
	PaymentDate *string         `json:"paymentDate,omitempty"`
}

// StudentFeesResponse lists fee records, latest due date first, with totals.
type StudentFeesResponse struct {
	Student          StudentItem     `json:"student"`
	Records          []FeeItem       `json:"records"`
	TotalDue         decimal.Decimal `json:"totalDue"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}
