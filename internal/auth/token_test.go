package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub_backend/internal/config"
)

func setTestConfig(t *testing.T, ttlMinutes int) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = ttlMinutes
	config.AppConfig = cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestConfig(t, 60)

	token, err := GenerateToken("user-123", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "memberhub", claims.Issuer)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	setTestConfig(t, 60)

	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	setTestConfig(t, -1) // issue already-expired tokens

	token, err := GenerateToken("user-123", "student")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	setTestConfig(t, 60)
	token, err := GenerateToken("user-123", "student")
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "different-secret"
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, "notifications:send"))
	assert.True(t, HasPermission(RoleStudent, "courses:enroll"))
	assert.False(t, HasPermission(RoleStudent, "notifications:send"))
	assert.False(t, HasPermission("ghost", "anything"))
}
