package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cretpass", hash)
	assert.True(t, CheckPassword(hash, "s3cretpass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", SessionTTL: time.Hour, TokenIssuer: "schoolms"})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	token, err := svc.GenerateSessionToken("sess-1", 42, "jdoe", "staff", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "sess-1", claims.ID)
}

func TestValidateToken_Failures(t *testing.T) {
	svc := newTestService()

	expired, err := svc.GenerateSessionToken("sess-2", 1, "a", "staff", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := NewJWTService(JWTConfig{SecretKey: "other", TokenIssuer: "schoolms"})
	forged, err := other.GenerateSessionToken("sess-3", 1, "a", "staff", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = ExtractBearerToken("Basic xyz")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
