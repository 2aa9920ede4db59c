package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator map[string]*services.Identity

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*services.Identity, error) {
	switch token {
	case "no-profile":
		return nil, apperrors.NewCustomError(apperrors.ErrNoProfile, appauth.MsgNoRole)
	case "revoked":
		return nil, apperrors.ErrSessionRevoked
	}
	id, ok := s[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return id, nil
}

func identity(id int64, role appauth.Role) *services.Identity {
	return &services.Identity{SessionID: fmt.Sprint(id), User: &models.User{ID: id, Username: fmt.Sprint("user", id)}, Role: role}
}

func newTestRouter() *gin.Engine {
	m := NewAuthMiddleware(stubAuthenticator{
		"staff":   identity(1, appauth.Staff{}),
		"student": identity(2, appauth.Student{Self: appauth.StudentRef{ID: 10, Identifier: "STU-0010"}}),
		"parent":  identity(3, appauth.Parent{Child: appauth.StudentRef{ID: 10, Identifier: "STU-0010"}}),
	}, zerolog.Nop())

	r := gin.New()
	r.Use(Sessions(NewSessionStore(SessionConfig{Secret: "test-secret"})))
	authed := r.Group("", m.RequireAuth())
	authed.GET("/whoami", func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.String(http.StatusOK, id.User.Username)
	})
	authed.GET("/dashboard/staff", m.RoleRequired(models.RoleStaff), func(c *gin.Context) {
		c.String(http.StatusOK, "staff dashboard")
	})
	authed.GET("/admin", m.StaffOnly(), func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	return r
}

func do(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequireAuth_RedirectsBrowsers(t *testing.T) {
	w := do(newTestRouter(), "/whoami", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "user")
}

func TestRequireAuth_JSONClientsGet401(t *testing.T) {
	w := do(newTestRouter(), "/whoami", map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, services.MsgLoginRequired, resp.Error.Message)
}

func TestRequireAuth_BearerToken(t *testing.T) {
	w := do(newTestRouter(), "/whoami", map[string]string{"Authorization": "Bearer staff"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user1", w.Body.String())
}

func TestRequireAuth_NoProfile(t *testing.T) {
	r := newTestRouter()

	w := do(r, "/whoami", map[string]string{"Authorization": "Bearer no-profile"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrorCodeNoProfile, resp.Error.Code)
	assert.Equal(t, appauth.MsgNoRole, resp.Error.Message)

	w = do(r, "/whoami", map[string]string{"Authorization": "Bearer revoked", "Accept": "application/json"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, services.MsgSessionEnded, decode(t, w).Error.Message)
}

func TestRoleRequired(t *testing.T) {
	r := newTestRouter()

	w := do(r, "/dashboard/staff", map[string]string{"Authorization": "Bearer staff"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/dashboard/staff", map[string]string{"Authorization": "Bearer student"})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/student", w.Header().Get("Location"))
	resp := decode(t, w)
	assert.Contains(t, resp.Messages, appauth.MsgAccessDenied)
}

func TestStaffOnly(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusOK, do(r, "/admin", map[string]string{"Authorization": "Bearer staff"}).Code)

	w := do(r, "/admin", map[string]string{"Authorization": "Bearer parent"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appauth.MsgNoPermission, decode(t, w).Error.Message)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden, "nope"},
		{"validation", apperrors.NewValidationError("marks must be zero or more"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "marks must be zero or more"},
		{"duplicate username", apperrors.NewCustomError(apperrors.ErrUsernameTaken, services.MsgUsernameTaken), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, services.MsgUsernameTaken},
		{"invalid login", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, services.MsgInvalidLogin), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, services.MsgInvalidLogin},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestBindJSON_ValidationErrors(t *testing.T) {
	r := gin.New()
	r.POST("/marks", func(c *gin.Context) {
		var req dto.UpsertMarksRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/marks", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
}
