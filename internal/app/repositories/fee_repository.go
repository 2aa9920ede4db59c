package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// FeeRepository handles fee records
type FeeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(db *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{db: db, sb: statementBuilder()}
}

var feeColumns = []string{"id", "student_id", "due_date", "amount_due", "amount_paid", "status", "payment_date"}

func scanFee(row pgx.Row) (*models.FeeRecord, error) {
	var f models.FeeRecord
	if err := row.Scan(&f.ID, &f.StudentID, &f.DueDate, &f.AmountDue, &f.AmountPaid, &f.Status, &f.PaymentDate); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new fee record
func (r *FeeRepository) Create(ctx context.Context, fee *models.FeeRecord) error {
	if fee.Status == "" {
		fee.Status = models.FeeStatusPending
	}

	sql, args, err := r.sb.Insert("fee_records").
		Columns("student_id", "due_date", "amount_due", "amount_paid", "status", "payment_date").
		Values(fee.StudentID, fee.DueDate, fee.AmountDue, fee.AmountPaid, fee.Status, fee.PaymentDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create fee query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&fee.ID); err != nil {
		switch {
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("invalid fee amounts or status")
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", fee.StudentID).Msg("Error creating fee record")
		return fmt.Errorf("error creating fee record: %w", err)
	}
	return nil
}

// GetByID retrieves a fee record by ID
func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*models.FeeRecord, error) {
	sql, args, err := r.sb.Select(feeColumns...).From("fee_records").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get fee query: %w", err)
	}

	fee, err := scanFee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving fee record: %w", err)
	}
	return fee, nil
}

// ListByStudent returns a student's fee records, latest due date first
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.FeeRecord, error) {
	sql, args, err := r.sb.Select(feeColumns...).
		From("fee_records").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("due_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list fees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing fee records: %w", err)
	}
	defer rows.Close()

	fees := []models.FeeRecord{}
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, *fee)
	}
	return fees, rows.Err()
}

// RecordPayment stores the paid amount, status and payment date exactly as given.
func (r *FeeRepository) RecordPayment(ctx context.Context, id int64, amountPaid decimal.Decimal, status models.FeeStatus, paymentDate *time.Time) (*models.FeeRecord, error) {
	sql, args, err := r.sb.Update("fee_records").
		Set("amount_paid", amountPaid).
		Set("status", status).
		Set("payment_date", paymentDate).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(feeColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build record payment query: %w", err)
	}

	fee, err := scanFee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.ErrFeeRecordNotFound
		case dberrors.IsCheckViolation(err):
			return nil, apperrors.NewValidationError("invalid fee amounts or status")
		}
		logger.Error().Err(err).Int64("feeID", id).Msg("Error recording payment")
		return nil, fmt.Errorf("error recording payment: %w", err)
	}
	return fee, nil
}

// CountByStudent returns the number of fee records of a student
func (r *FeeRepository) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fee_records WHERE student_id = $1`, studentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting fee records: %w", err)
	}
	return n, nil
}

// StatusCounts counts all fee records by status
func (r *FeeRepository) StatusCounts(ctx context.Context) (map[models.FeeStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM fee_records GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting fee statuses: %w", err)
	}
	defer rows.Close()

	counts := map[models.FeeStatus]int64{}
	for rows.Next() {
		var status models.FeeStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// TotalOutstanding sums the unpaid remainder of every fee record
func (r *FeeRepository) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(GREATEST(amount_due - amount_paid, 0)), 0) FROM fee_records`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing outstanding fees: %w", err)
	}
	return total, nil
}
