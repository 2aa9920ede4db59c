package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yigit/schoolms/internal/app/models"
)

// The stores below are implemented by the repositories package; services depend on these
// interfaces so they can be exercised without a database.

// UserStore persists login identities
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// ProfileStore persists role bindings
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

// SessionStore persists issued sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// DepartmentStore persists departments
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetOrCreate(ctx context.Context, name string) (*models.Department, bool, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
	Count(ctx context.Context) (int64, error)
}

// SubjectStore persists subjects
type SubjectStore interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetOrCreate(ctx context.Context, name string) (*models.Subject, bool, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	Count(ctx context.Context) (int64, error)
}

// StudentStore persists students and their identifiers
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	CountSearch(ctx context.Context, term string) (int64, error)
	Search(ctx context.Context, term string, limit, offset uint64) ([]*models.Student, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// MarksStore persists subject marks
type MarksStore interface {
	Upsert(ctx context.Context, mark *models.SubjectMark) error
	InsertIfAbsent(ctx context.Context, mark *models.SubjectMark) (bool, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.SubjectMark, error)
}

// AttendanceStore persists attendance days
type AttendanceStore interface {
	Upsert(ctx context.Context, a *models.Attendance) error
	InsertIfAbsent(ctx context.Context, a *models.Attendance) (bool, error)
	ListByStudent(ctx context.Context, studentID int64, limit uint64) ([]models.Attendance, error)
	CountByStudent(ctx context.Context, studentID int64) (present, total int, err error)
}

// FeeStore persists fee records
type FeeStore interface {
	Create(ctx context.Context, fee *models.FeeRecord) error
	GetByID(ctx context.Context, id int64) (*models.FeeRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.FeeRecord, error)
	RecordPayment(ctx context.Context, id int64, amountPaid decimal.Decimal, status models.FeeStatus, paymentDate *time.Time) (*models.FeeRecord, error)
	CountByStudent(ctx context.Context, studentID int64) (int64, error)
	StatusCounts(ctx context.Context) (map[models.FeeStatus]int64, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
}

// ReportStore runs ranking and analytics aggregates
type ReportStore interface {
	StudentTotals(ctx context.Context) ([]models.StudentTotal, error)
	SubjectStats(ctx context.Context) ([]models.SubjectStats, error)
}
