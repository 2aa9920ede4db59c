package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/middleware"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterBindingValidators(); err != nil {
		panic(err)
	}
}

var (
	staffIdentity = &services.Identity{
		SessionID: "s-staff",
		User:      &models.User{ID: 1, Username: "head"},
		Role:      appauth.Staff{},
	}
	studentIdentity = &services.Identity{
		SessionID: "s-student",
		User:      &models.User{ID: 2, Username: "alice"},
		Role:      appauth.Student{Self: appauth.StudentRef{ID: 10, Identifier: "STU-1010"}},
	}
	parentIdentity = &services.Identity{
		SessionID: "s-parent",
		User:      &models.User{ID: 3, Username: "bob"},
		Role:      appauth.Parent{Child: appauth.StudentRef{ID: 10, Identifier: "STU-1010"}},
	}
)

// tokenAuthenticator maps bearer tokens to identities.
type tokenAuthenticator map[string]*services.Identity

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (*services.Identity, error) {
	identity, ok := a[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return identity, nil
}

var testTokens = tokenAuthenticator{
	"staff":   staffIdentity,
	"student": studentIdentity,
	"parent":  parentIdentity,
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Sessions(middleware.NewSessionStore(middleware.SessionConfig{Secret: "test-cookie-secret"})))
	return r
}

func newAuthMiddleware() *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(testTokens, zerolog.Nop())
}

func request(r http.Handler, method, path, token string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie returns the last session cookie written by a response.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionName {
			found = c
		}
	}
	return found
}

type envelope struct {
	Success  bool             `json:"success"`
	Data     json.RawMessage  `json:"data"`
	Messages []string         `json:"messages"`
	Error    *dto.ErrorDetail `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
