package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// ProfileRepository handles role bindings of users
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db, sb: statementBuilder()}
}

// GetByUserID returns the profile of a user, or ErrNoProfile when none exists.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select("id", "user_id", "role", "student_id", "related_student_id").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	var p models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.Role, &p.StudentID, &p.RelatedStudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoProfile
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return &p, nil
}

// Upsert creates or replaces the profile of profile.UserID.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	sql, args, err := r.sb.Insert("profiles").
		Columns("user_id", "role", "student_id", "related_student_id").
		Values(profile.UserID, profile.Role, profile.StudentID, profile.RelatedStudentID).
		Suffix(`ON CONFLICT (user_id) DO UPDATE
			SET role = EXCLUDED.role, student_id = EXCLUDED.student_id, related_student_id = EXCLUDED.related_student_id
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "profiles_student_id_key"):
			return apperrors.ErrStudentAlreadyLinked
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("unknown role")
		}
		logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error upserting profile")
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}
