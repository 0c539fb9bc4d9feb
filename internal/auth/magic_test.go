package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-magic-links")

	token, jti, err := GenerateMagicToken("pat@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := ValidateMagicToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "kyndra", claims.Issuer)
}

func TestValidateMagicTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-magic-links")

	token, _, err := GenerateMagicToken("pat@example.com")
	require.NoError(t, err)

	_, err = ValidateMagicToken(token + "x")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-different-secret")
	_, err = ValidateMagicToken(token)
	assert.Error(t, err)
}

func TestGenerateMagicTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := GenerateMagicToken("pat@example.com")
	assert.Error(t, err)
}
