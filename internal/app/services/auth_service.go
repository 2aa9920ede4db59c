package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/auth"
	"github.com/yigit/schoolms/internal/pkg/validation"
)

// User-facing auth messages
const (
	MsgInvalidLogin   = "Invalid Username or Password."
	MsgUsernameTaken  = "Username already taken."
	MsgAccountCreated = "Account created successfully! Please login."
	MsgLoggedOut      = "You have been logged out."
	MsgLoginRequired  = "Please login to continue."
	MsgSessionEnded   = "Your session has ended. Please login again."
)

// RoleResolver turns a user into its current role
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID int64) (appauth.Role, error)
}

// Identity is an authenticated request principal.
type Identity struct {
	SessionID string
	User      *models.User
	Role      appauth.Role
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Identity
	Token     string
	ExpiresAt time.Time
}

// AuthService handles registration, login, session validation and logout
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	roles      RoleResolver
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, sessions SessionStore, roles RoleResolver, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		roles:      roles,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

func validateRegistration(req *dto.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	details := dto.NewValidationErrors()
	if req.FirstName == "" {
		details.AddError("firstName", "first name is required")
	}
	if req.LastName == "" {
		details.AddError("lastName", "last name is required")
	}
	if !validation.CompiledPatterns.Username.MatchString(req.Username) {
		details.AddError("username", "username must be 3-150 letters, digits or @.+-_")
	}
	if len(req.Password) < validation.PasswordMinLength {
		details.AddError("password", fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}
	if details.HasErrors() {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Please correct the highlighted fields.").
			WithDetails(map[string]interface{}{"fields": details.Errors})
	}
	return nil
}

// Register creates a login identity. No profile is created, so the new user cannot log in
// until a role is assigned.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrUsernameTaken, MsgUsernameTaken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil, apperrors.NewCustomError(apperrors.ErrUsernameTaken, MsgUsernameTaken)
		}
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User registered")
	return &dto.UserResponse{ID: user.ID, Username: user.Username, FirstName: user.FirstName, LastName: user.LastName}, nil
}

// Login verifies credentials, resolves the role and issues a session. Unknown users, inactive
// users and wrong passwords all yield the same invalid-credentials error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidLogin)

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return nil, invalid
	}

	role, err := s.roles.ResolveRole(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoProfile) {
			s.logger.Warn().Int64("userID", user.ID).Msg("Login refused: no usable profile")
			return nil, apperrors.NewCustomError(apperrors.ErrNoProfile, appauth.MsgNoRole)
		}
		return nil, err
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwtService.SessionTTL()),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateSessionToken(session.ID, user.ID, user.Username, string(role.Name()), session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role.Name())).Msg("User logged in")
	return &LoginResult{
		Identity:  Identity{SessionID: session.ID, User: user, Role: role},
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Authenticate validates a session token and re-resolves the caller's role. When the role
// can no longer be resolved the session is revoked and ErrNoProfile is returned.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	session, err := s.sessions.GetByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, apperrors.ErrTokenInvalid
	}
	if !session.Active(s.now()) {
		return nil, apperrors.ErrSessionRevoked
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrSessionRevoked
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrSessionRevoked
	}

	role, err := s.roles.ResolveRole(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoProfile) {
			if rerr := s.sessions.Revoke(ctx, session.ID, s.now()); rerr != nil {
				s.logger.Error().Err(rerr).Str("sessionID", session.ID).Msg("Failed to revoke session")
			}
			return nil, apperrors.NewCustomError(apperrors.ErrNoProfile, appauth.MsgNoRole)
		}
		return nil, err
	}

	return &Identity{SessionID: session.ID, User: user, Role: role}, nil
}

// Logout revokes the session behind token. Missing or unusable tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID, s.now()); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	return nil
}

// PruneSessions deletes sessions that expired before now.
func (s *AuthService) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// SessionUser renders an identity for API clients.
func SessionUser(id *Identity) dto.SessionUser {
	out := dto.SessionUser{
		ID:        id.User.ID,
		Username:  id.User.Username,
		FirstName: id.User.FirstName,
		LastName:  id.User.LastName,
		Role:      string(id.Role.Name()),
	}
	if ref, ok := appauth.LinkedStudent(id.Role); ok {
		out.StudentIdentifier = ref.Identifier
	}
	return out
}
