// Package seed fills a database with synthetic school data for development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/helpers"
)

// DefaultDepartments is the catalog created by SeedDepartments.
var DefaultDepartments = []string{"Science", "Commerce", "Arts", "Computer Science"}

// DefaultSubjects is the catalog created by SeedSubjects.
var DefaultSubjects = []string{"Maths", "Physics", "Chemistry", "Biology", "English", "CS Theory"}

const (
	minIdentifier   = 1000
	maxIdentifier   = 9999
	minAge          = 18
	maxAge          = 25
	maxUniqueTries  = 50
	defaultFeeValue = 500
)

// DepartmentStore is the department side of the seeder
type DepartmentStore interface {
	GetOrCreate(ctx context.Context, name string) (*models.Department, bool, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
}

// SubjectStore is the subject side of the seeder
type SubjectStore interface {
	GetOrCreate(ctx context.Context, name string) (*models.Subject, bool, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
}

// StudentStore is the student side of the seeder
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
}

// MarksStore inserts marks without overwriting
type MarksStore interface {
	InsertIfAbsent(ctx context.Context, mark *models.SubjectMark) (bool, error)
}

// AttendanceStore inserts attendance without overwriting
type AttendanceStore interface {
	InsertIfAbsent(ctx context.Context, day *models.Attendance) (bool, error)
}

// FeeStore creates fee records
type FeeStore interface {
	Create(ctx context.Context, fee *models.FeeRecord) error
	CountByStudent(ctx context.Context, studentID int64) (int64, error)
}

// Stores are the tables the seeder writes to
type Stores struct {
	Departments DepartmentStore
	Subjects    SubjectStore
	Students    StudentStore
	Marks       MarksStore
	Attendance  AttendanceStore
	Fees        FeeStore
}

// Seeder generates synthetic rows. Every random choice comes from its faker, so a faker built
// from a fixed seed reproduces the same data on an empty database.
type Seeder struct {
	stores Stores
	faker  *gofakeit.Faker
	logger zerolog.Logger
	today  func() time.Time
}

// NewSeeder creates a Seeder
func NewSeeder(stores Stores, faker *gofakeit.Faker, logger zerolog.Logger) *Seeder {
	return &Seeder{
		stores: stores,
		faker:  faker,
		logger: logger,
		today:  helpers.Today,
	}
}

// NewFaker returns a deterministic faker for seed, or a randomly seeded one when seed is 0.
func NewFaker(seed int64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// Report counts what a seeding run created.
type Report struct {
	Departments int
	Subjects    int
	Students    int
	Marks       int
	Attendance  int
	Fees        int
}

// SeedDepartments makes sure the default departments exist.
func (s *Seeder) SeedDepartments(ctx context.Context) (int, error) {
	created := 0
	for _, name := range DefaultDepartments {
		_, isNew, err := s.stores.Departments.GetOrCreate(ctx, name)
		if err != nil {
			return created, fmt.Errorf("failed to seed department %q: %w", name, err)
		}
		if isNew {
			created++
		}
	}
	s.logger.Info().Int("created", created).Msg("Departments seeded")
	return created, nil
}

// SeedSubjects makes sure the default subjects exist.
func (s *Seeder) SeedSubjects(ctx context.Context) (int, error) {
	created := 0
	for _, name := range DefaultSubjects {
		_, isNew, err := s.stores.Subjects.GetOrCreate(ctx, name)
		if err != nil {
			return created, fmt.Errorf("failed to seed subject %q: %w", name, err)
		}
		if isNew {
			created++
		}
	}
	s.logger.Info().Int("created", created).Msg("Subjects seeded")
	return created, nil
}

func (s *Seeder) uniqueIdentifier(ctx context.Context) (string, error) {
	for i := 0; i < maxUniqueTries; i++ {
		identifier := fmt.Sprintf("STU-%d", s.faker.Number(minIdentifier, maxIdentifier))
		exists, err := s.stores.Students.IdentifierExists(ctx, identifier)
		if err != nil {
			return "", err
		}
		if !exists {
			return identifier, nil
		}
	}
	return "", fmt.Errorf("no unused identifier after %d attempts", maxUniqueTries)
}

func (s *Seeder) uniqueEmail(ctx context.Context) (string, error) {
	for i := 0; i < maxUniqueTries; i++ {
		email := strings.ToLower(s.faker.Email())
		exists, err := s.stores.Students.EmailExists(ctx, email)
		if err != nil {
			return "", err
		}
		if !exists {
			return email, nil
		}
	}
	return "", fmt.Errorf("no unused email after %d attempts", maxUniqueTries)
}

func (s *Seeder) address() string {
	a := s.faker.Address()
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.Zip)
}

// SeedStudents creates n students spread randomly over the existing departments. A row that
// fails is logged and skipped; the failures are returned joined.
func (s *Seeder) SeedStudents(ctx context.Context, n int) (int, error) {
	departments, err := s.stores.Departments.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load departments: %w", err)
	}
	if len(departments) == 0 {
		s.logger.Warn().Msg("No departments found. Create departments before seeding students.")
		return 0, apperrors.ErrNoDepartments
	}

	created := 0
	var errs error
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return created, errors.Join(errs, err)
		}
		if err := s.seedStudent(ctx, departments); err != nil {
			s.logger.Error().Err(err).Int("row", i+1).Msg("Error creating student")
			errs = errors.Join(errs, fmt.Errorf("student %d: %w", i+1, err))
			continue
		}
		created++
	}

	s.logger.Info().Int("requested", n).Int("created", created).Msg("Students seeded")
	return created, errs
}

func (s *Seeder) seedStudent(ctx context.Context, departments []*models.Department) error {
	dept := departments[s.faker.Number(0, len(departments)-1)]

	identifier, err := s.uniqueIdentifier(ctx)
	if err != nil {
		return err
	}
	email, err := s.uniqueEmail(ctx)
	if err != nil {
		return err
	}

	return s.stores.Students.Create(ctx, &models.Student{
		DepartmentID: dept.ID,
		Identifier:   identifier,
		Name:         s.faker.Name(),
		Email:        email,
		Age:          s.faker.Number(minAge, maxAge),
		Address:      s.address(),
	})
}

// SeedMarks gives every (student, subject) pair without marks a random score in [0,100].
// limit restricts the run to the first limit students; 0 means all.
func (s *Seeder) SeedMarks(ctx context.Context, limit int) (int, error) {
	students, err := s.stores.Students.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load students: %w", err)
	}
	if limit > 0 && len(students) > limit {
		students = students[:limit]
	}
	subjects, err := s.stores.Subjects.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load subjects: %w", err)
	}

	created := 0
	var errs error
	for _, student := range students {
		for _, subject := range subjects {
			mark := &models.SubjectMark{
				StudentID: student.ID,
				SubjectID: subject.ID,
				Marks:     s.faker.Number(0, models.MaxMarksPerSubject),
			}
			inserted, err := s.stores.Marks.InsertIfAbsent(ctx, mark)
			if err != nil {
				s.logger.Error().Err(err).Str("student", student.Identifier).Str("subject", subject.Name).Msg("Error creating marks")
				errs = errors.Join(errs, err)
				continue
			}
			if inserted {
				created++
			}
		}
	}

	s.logger.Info().Int("students", len(students)).Int("created", created).Msg("Marks seeded")
	return created, errs
}

// SeedAttendance records the last days weekdays for every student, present with a 90% chance.
// Days that already have a row are left alone.
func (s *Seeder) SeedAttendance(ctx context.Context, days int) (int, error) {
	students, err := s.stores.Students.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load students: %w", err)
	}

	dates := weekdaysBefore(s.today(), days)
	created := 0
	var errs error
	for _, student := range students {
		for _, date := range dates {
			day := &models.Attendance{
				StudentID: student.ID,
				Date:      date,
				IsPresent: s.faker.Number(1, 10) <= 9,
			}
			inserted, err := s.stores.Attendance.InsertIfAbsent(ctx, day)
			if err != nil {
				s.logger.Error().Err(err).Str("student", student.Identifier).Time("date", date).Msg("Error creating attendance")
				errs = errors.Join(errs, err)
				continue
			}
			if inserted {
				created++
			}
		}
	}

	s.logger.Info().Int("days", len(dates)).Int("created", created).Msg("Attendance seeded")
	return created, errs
}

// weekdaysBefore returns the n weekdays up to and including today, newest first.
func weekdaysBefore(today time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for d := today; len(out) < n; d = d.AddDate(0, 0, -1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}

// SeedFees creates one pending term fee for every student that has no fee record yet.
func (s *Seeder) SeedFees(ctx context.Context) (int, error) {
	students, err := s.stores.Students.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load students: %w", err)
	}

	due := s.today().AddDate(0, 1, 0)
	created := 0
	var errs error
	for _, student := range students {
		count, err := s.stores.Fees.CountByStudent(ctx, student.ID)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if count > 0 {
			continue
		}

		amount := decimal.NewFromInt(int64(defaultFeeValue + 50*s.faker.Number(0, 10)))
		fee := &models.FeeRecord{
			StudentID: student.ID,
			DueDate:   due,
			AmountDue: amount,
			Status:    models.FeeStatusPending,
		}
		if err := s.stores.Fees.Create(ctx, fee); err != nil {
			s.logger.Error().Err(err).Str("student", student.Identifier).Msg("Error creating fee record")
			errs = errors.Join(errs, err)
			continue
		}
		created++
	}

	s.logger.Info().Int("created", created).Msg("Fees seeded")
	return created, errs
}

// Options select what Run seeds.
type Options struct {
	Students       int
	MarksLimit     int
	AttendanceDays int
	Fees           bool
}

// Run seeds departments, subjects, students, marks and optionally attendance and fees.
// A missing department catalog stops the run; row failures do not.
func (s *Seeder) Run(ctx context.Context, opts Options) (Report, error) {
	var report Report
	var errs error
	var err error

	if report.Departments, err = s.SeedDepartments(ctx); err != nil {
		return report, err
	}
	if report.Subjects, err = s.SeedSubjects(ctx); err != nil {
		return report, err
	}

	report.Students, err = s.SeedStudents(ctx, opts.Students)
	if errors.Is(err, apperrors.ErrNoDepartments) {
		return report, err
	}
	errs = errors.Join(errs, err)

	report.Marks, err = s.SeedMarks(ctx, opts.MarksLimit)
	errs = errors.Join(errs, err)

	if opts.AttendanceDays > 0 {
		report.Attendance, err = s.SeedAttendance(ctx, opts.AttendanceDays)
		errs = errors.Join(errs, err)
	}
	if opts.Fees {
		report.Fees, err = s.SeedFees(ctx)
		errs = errors.Join(errs, err)
	}
	return report, errs
}
