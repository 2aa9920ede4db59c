package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/auth"
)

const (
	identityKey = "identity"
	userIDKey   = "userID"

	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/login"
)

// Authenticator validates a session token
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authenticator Authenticator
	logger        zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// RequestToken returns the bearer token of the request, falling back to the cookie session.
func RequestToken(c *gin.Context) string {
	if token, err := auth.ExtractBearerToken(c.GetHeader("Authorization")); err == nil && token != "" {
		return token
	}
	return SessionToken(c)
}

// RequireAuth resolves the caller's identity and role on every request. Browsers without a
// usable session are redirected to the login page, API clients get 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := RequestToken(c)
		if token == "" {
			m.reject(c, apperrors.ErrUnauthenticated, services.MsgLoginRequired)
			return
		}

		identity, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrNoProfile):
				m.logger.Warn().Str("path", c.Request.URL.Path).Msg("Session user has no usable role")
				m.reject(c, err, appauth.MsgNoRole)
			case errors.Is(err, apperrors.ErrTokenExpired),
				errors.Is(err, apperrors.ErrTokenInvalid),
				errors.Is(err, apperrors.ErrSessionRevoked):
				m.reject(c, err, services.MsgSessionEnded)
			default:
				HandleAPIError(c, err)
			}
			return
		}

		c.Set(identityKey, identity)
		c.Set(userIDKey, identity.User.ID)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, err error, message string) {
	ClearAndFlash(c, message)
	if WantsJSON(c) {
		_, code, _ := ErrorStatus(err)
		if code == dto.ErrorCodeInternalServer {
			code = dto.ErrorCodeUnauthorized
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// RoleRequired allows only callers whose role equals required. Others are sent to their own
// dashboard with an "Access denied." flash.
func (m *AuthMiddleware) RoleRequired(required models.ProfileRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			m.reject(c, apperrors.ErrUnauthenticated, services.MsgLoginRequired)
			return
		}
		if !appauth.HasRole(identity.Role, required) {
			m.logger.Info().
				Int64("userID", identity.User.ID).
				Str("role", string(identity.Role.Name())).
				Str("required", string(required)).
				Msg("Dashboard role mismatch")
			AddFlash(c, appauth.MsgAccessDenied)
			Redirect(c, appauth.DashboardPath(identity.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffOnly answers 403 to every role but staff.
func (m *AuthMiddleware) StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			m.reject(c, apperrors.ErrUnauthenticated, services.MsgLoginRequired)
			return
		}
		if err := appauth.CanManageRecords(identity.Role); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by RequireAuth.
func CurrentIdentity(c *gin.Context) (*services.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*services.Identity)
	return identity, ok && identity != nil
}
