package dto

import "github.com/shopspring/decimal"

// CreateDepartmentRequest represents a new department
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// DepartmentResponse represents a department
type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateSubjectRequest represents a new subject
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SubjectResponse represents a subject
type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateStudentRequest creates a student together with its identifier.
type CreateStudentRequest struct {
	Identifier   string `json:"identifier" binding:"required,identifier"`
	DepartmentID int64  `json:"departmentId" binding:"required,gt=0"`
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Age          int    `json:"age" binding:"omitempty,min=1,max=150"`
	Address      string `json:"address" binding:"required"`
}

// UpsertMarksRequest sets a student's score in a subject.
type UpsertMarksRequest struct {
	StudentIdentifier string `json:"studentIdentifier" binding:"required,identifier"`
	SubjectID         int64  `json:"subjectId" binding:"required,gt=0"`
	Marks             *int   `json:"marks" binding:"required,min=0"`
}

// UpsertAttendanceRequest records presence for a day.
type UpsertAttendanceRequest struct {
	StudentIdentifier string `json:"studentIdentifier" binding:"required,identifier"`
	Date              string `json:"date" binding:"required,datetime=2006-01-02"`
	IsPresent         *bool  `json:"isPresent" binding:"required"`
}

// CreateFeeRequest creates a fee obligation. DueDate defaults to today.
type CreateFeeRequest struct {
	StudentIdentifier string          `json:"studentIdentifier" binding:"required,identifier"`
	DueDate           string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	AmountDue         decimal.Decimal `json:"amountDue"`
}

// RecordPaymentRequest stores a payment exactly as supplied.
type RecordPaymentRequest struct {
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	Status      string          `json:"status" binding:"required,feestatus"`
	PaymentDate string          `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
}

// LinkProfileRequest assigns a role to an existing login.
type LinkProfileRequest struct {
	Username                 string `json:"username" binding:"required"`
	Role                     string `json:"role" binding:"required,role"`
	StudentIdentifier        string `json:"studentIdentifier" binding:"omitempty,identifier"`
	RelatedStudentIdentifier string `json:"relatedStudentIdentifier" binding:"omitempty,identifier"`
}

// ProfileResponse represents a role binding
type ProfileResponse struct {
	Username                 string `json:"username"`
	Role                     string `json:"role"`
	StudentIdentifier        string `json:"studentIdentifier,omitempty"`
	RelatedStudentIdentifier string `json:"relatedStudentIdentifier,omitempty"`
}
