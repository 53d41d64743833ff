package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslend/campuslend-backend/pkg/config"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "campuslend-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	now := time.Now().UTC()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleSupervisor,
		Email:  "supervisor@campus.edu",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.RoleSupervisor, claims.Role)
	assert.Equal(t, "supervisor@campus.edu", claims.Email)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now().UTC()

	t.Run("missing secret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Secret = ""
		_, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleBorrower})
		require.Error(t, err)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := MintAccessToken(testJWTConfig(), now, AccessTokenPayload{UserID: uuid.New(), Role: enums.Role("janitor")})
		require.Error(t, err)
	})

	t.Run("missing user id", func(t *testing.T) {
		_, err := MintAccessToken(testJWTConfig(), now, AccessTokenPayload{Role: enums.RoleBorrower})
		require.Error(t, err)
	})
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleAdmin})
	require.NoError(t, err)

	other := cfg
	other.Secret = "different-secret"
	_, err = ParseAccessToken(other, signed)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().UTC().Add(-2*time.Hour), AccessTokenPayload{UserID: uuid.New(), Role: enums.RoleBorrower})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err)
}
