package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	ProfileRepository    *ProfileRepository
	SessionRepository    *SessionRepository
	DepartmentRepository *DepartmentRepository
	SubjectRepository    *SubjectRepository
	StudentRepository    *StudentRepository
	MarksRepository      *MarksRepository
	AttendanceRepository *AttendanceRepository
	FeeRepository        *FeeRepository
	ReportRepository     *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		ProfileRepository:    NewProfileRepository(db),
		SessionRepository:    NewSessionRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		StudentRepository:    NewStudentRepository(db),
		MarksRepository:      NewMarksRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
		FeeRepository:        NewFeeRepository(db),
		ReportRepository:     NewReportRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
