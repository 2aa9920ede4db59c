package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	// SessionName is the name of the cookie carrying the session token and flash messages.
	SessionName = "schoolms_session"

	sessionTokenKey = "token"
)

// SessionConfig configures the cookie session store
type SessionConfig struct {
	Secret string
	Secure bool
	MaxAge int
}

// NewSessionStore creates the signed cookie store used by Sessions.
func NewSessionStore(config SessionConfig) sessions.Store {
	store := cookie.NewStore([]byte(config.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.MaxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// Sessions installs the cookie session on the router.
func Sessions(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(SessionName, store)
}

// SaveSessionToken stores the session token in the cookie session.
func SaveSessionToken(c *gin.Context, token string) error {
	session := sessions.Default(c)
	session.Set(sessionTokenKey, token)
	return session.Save()
}

// SessionToken returns the token held by the cookie session, if any.
func SessionToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionTokenKey).(string)
	return token
}

// ClearSession drops every value of the cookie session, flash messages included.
func ClearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
}

// AddFlash queues a one-shot message for the next page.
func AddFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
}

// Flashes pops the pending flash messages.
func Flashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save()

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ClearAndFlash resets the session and leaves a single flash message in the fresh one.
func ClearAndFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.Clear()
	session.AddFlash(message)
	_ = session.Save()
}

// WantsJSON reports whether the caller is an API client rather than a browser form.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON) {
		return true
	}
	return c.ContentType() == gin.MIMEJSON
}

// Redirect sends the browser to location. JSON callers get the same status with the location
// in the body.
func Redirect(c *gin.Context, location string) {
	c.Header("Location", location)
	if WantsJSON(c) {
		c.JSON(http.StatusFound, redirectBody(location, Flashes(c)))
		return
	}
	c.Redirect(http.StatusFound, location)
}
