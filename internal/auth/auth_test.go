package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndValidate(t *testing.T) {
	k, err := NewKeys("s3cret")
	require.NoError(t, err)

	_, err = k.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	token, err := k.Login("s3cret")
	require.NoError(t, err)

	claims, err := k.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleAdmin))
	assert.Equal(t, "admin", claims.Subject)
}

func TestValidateTokenRejects(t *testing.T) {
	k, err := NewKeys("s3cret")
	require.NoError(t, err)
	other, err := NewKeys("different")
	require.NoError(t, err)

	foreign, err := other.Login("different")
	require.NoError(t, err)
	_, err = k.ValidateToken(foreign)
	assert.Error(t, err, "signed with another secret")

	k.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	stale, err := k.Login("s3cret")
	require.NoError(t, err)
	k.now = time.Now
	_, err = k.ValidateToken(stale)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Roles: []string{RoleAdmin}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = k.ValidateToken(unsigned)
	assert.Error(t, err)

	_, err = k.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestNewKeysNeedsSecret(t *testing.T) {
	_, err := NewKeys("")
	assert.Error(t, err)
}
