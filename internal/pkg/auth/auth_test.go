// internal/pkg/auth/auth_test.go
package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/pkg/auth"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "warehouse-test"
	cfg.JWT.Secret = "test-secret-key-with-enough-length-for-hmac"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := auth.NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(7, "admin", "admin")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestTokenTypeEnforced(t *testing.T) {
	manager := auth.NewJWTManager(testConfig())

	access, err := manager.GenerateAccessToken(7, "admin", "admin")
	require.NoError(t, err)
	refresh, err := manager.GenerateRefreshToken(7, "admin")
	require.NoError(t, err)

	_, err = manager.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = manager.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = manager.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute
	manager := auth.NewJWTManager(cfg)

	token, err := manager.GenerateAccessToken(7, "admin", "admin")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	manager := auth.NewJWTManager(testConfig())
	token, err := manager.GenerateAccessToken(7, "admin", "admin")
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret-key-with-enough-length!!"
	_, err = auth.NewJWTManager(other).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", auth.ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, auth.ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, auth.ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, auth.ExtractTokenFromHeader(""))
}

func TestPasswordHashAndVerify(t *testing.T) {
	manager := auth.NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	require.NoError(t, manager.VerifyPassword("123456", hash))
	assert.Error(t, manager.VerifyPassword("654321", hash))
}

func TestPasswordValidation(t *testing.T) {
	manager := auth.NewPasswordManager(testConfig())

	assert.Error(t, manager.ValidatePassword("short"))
	assert.NoError(t, manager.ValidatePassword("123456"))

	_, err := manager.HashPassword("x")
	assert.Error(t, err)
}
