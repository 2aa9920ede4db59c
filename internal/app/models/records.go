package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubjectMark is one student's score in one subject. At most one row exists per pair.
type SubjectMark struct {
	ID          int64  `json:"id" db:"id"`
	StudentID   int64  `json:"studentId" db:"student_id"`
	SubjectID   int64  `json:"subjectId" db:"subject_id"`
	SubjectName string `json:"subjectName"`
	Marks       int    `json:"marks" db:"marks"`
}

// Attendance is one student's presence on one day. At most one row exists per (student, date).
type Attendance struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Date      time.Time `json:"date" db:"date"`
	IsPresent bool      `json:"isPresent" db:"is_present"`
}

// FeeRecord is a billing obligation of a student.
type FeeRecord struct {
	ID          int64           `json:"id" db:"id"`
	StudentID   int64           `json:"studentId" db:"student_id"`
	DueDate     time.Time       `json:"dueDate" db:"due_date"`
	AmountDue   decimal.Decimal `json:"amountDue" db:"amount_due"`
	AmountPaid  decimal.Decimal `json:"amountPaid" db:"amount_paid"`
	Status      FeeStatus       `json:"status" db:"status"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty" db:"payment_date"`
}

// Outstanding is the unpaid remainder, never negative.
func (f *FeeRecord) Outstanding() decimal.Decimal {
	rest := f.AmountDue.Sub(f.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
