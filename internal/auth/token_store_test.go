package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/kv"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := kv.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client), mr
}

func TestTokenStore_RefreshToken(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "abc", 5, "u@example.com", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(refreshTokenKeyPrefix+"abc"))

	userID, email, err := store.GetRefreshToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint(5), userID)
	assert.Equal(t, "u@example.com", email)

	require.NoError(t, store.DeleteRefreshToken(ctx, "abc"))
	_, _, err = store.GetRefreshToken(ctx, "abc")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestTokenStore_RefreshTokenExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "abc", 5, "u@example.com", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, _, err := store.GetRefreshToken(ctx, "abc")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestTokenStore_Blacklist(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	listed, err := store.IsAccessTokenBlacklisted(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, store.BlacklistAccessToken(ctx, "jti", time.Minute))
	listed, err = store.IsAccessTokenBlacklisted(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, listed)

	mr.FastForward(2 * time.Minute)
	listed, err = store.IsAccessTokenBlacklisted(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, store.BlacklistAccessToken(ctx, "expired", 0))
	assert.False(t, mr.Exists(accessTokenKeyPrefix+"expired"))
}

func TestTokenStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.BlacklistAccessToken(ctx, "jti", time.Minute))
	require.NoError(t, store.StoreRefreshToken(ctx, "abc", 5, "u@example.com", time.Minute))
	mr.Close()

	listed, err := store.IsAccessTokenBlacklisted(ctx, "jti")
	assert.Error(t, err)
	assert.False(t, listed)

	_, _, err = store.GetRefreshToken(ctx, "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRefreshTokenNotFound)
}
