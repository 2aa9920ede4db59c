package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		status int
		db     string
	}{
		{"reachable", nil, http.StatusOK, "ok"},
		{"unreachable", errors.New("connection refused"), http.StatusServiceUnavailable, "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewHealthController(pingerFunc(func(context.Context) error { return tt.ping }), zerolog.Nop())
			r := newEngine()
			r.GET("/health", c.Health)

			w := request(r, http.MethodGet, "/health", "", nil, "")
			assert.Equal(t, tt.status, w.Code)
			var status HealthStatus
			env := decodeEnvelope(t, w, &status)
			assert.Equal(t, tt.ping == nil, env.Success)
			assert.Equal(t, tt.db, status.Database)
		})
	}
}
