package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessToken(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.GenerateAccessToken(7, "jane@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, AccessTokenExpiry.Seconds(), claims.ExpiresIn().Seconds(), 5)

	_, err = svc.ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestJWTService_RefreshToken(t *testing.T) {
	svc := NewJWTService("secret")

	id, token, err := svc.GenerateRefreshToken(7, "jane@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, KindRefresh, claims.Kind)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret")

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewJWTService("other").GenerateAccessToken(1, "a@b.c")
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewJWTService("secret")
		old.now = func() time.Time { return time.Now().Add(-2 * AccessTokenExpiry) }
		token, err := old.GenerateAccessToken(1, "a@b.c")
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}

func TestActorFromClaims(t *testing.T) {
	claims := &Claims{UserID: 3, Email: "x@y.z"}
	claims.ID = "jti"

	actor := ActorFromClaims(claims)
	assert.Equal(t, uint(3), actor.UserID)
	assert.Equal(t, "jti", actor.TokenID)
	assert.Same(t, claims, actor.Claims)
}
