package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/pkg/helpers"
)

func newAccountService(t *testing.T, f *fixture) (*AccountService, func()) {
	t.Helper()
	rdb, _ := testRedis(t)
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	svc := NewAccountService(f.store, jwt, rdb, testLogger(), nil, "", nil, nil, "")
	return svc, func() { _ = rdb.Close() }
}

func TestSignupRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Username: "newbie", Email: "new@mixfeed.dev", Password: "password123", Name: "New Person"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = svc.Signup(ctx, SignupInput{Username: "newbie", Email: "other@mixfeed.dev", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = svc.Signup(ctx, SignupInput{Username: "someone_else", Email: "new@mixfeed.dev", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestLoginIssuesSessionTokens(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()
	ctx := context.Background()

	resp, pair, err := svc.Login(ctx, "john@mixfeed.dev", "password123")
	require.NoError(t, err)
	assert.Equal(t, "john_doe", resp.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.john.ID, claims.UserID)

	sid, err := svc.Redis.HGet(ctx, sessionKey(f.john.ID), "sid").Result()
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, sid)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "john@mixfeed.dev", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost@mixfeed.dev", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRequiresCurrentSession(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()
	ctx := context.Background()

	_, first, err := svc.Login(ctx, "jane@mixfeed.dev", "password123")
	require.NoError(t, err)

	pair, uid, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, f.jane.ID, uid)
	assert.NotEmpty(t, pair.AccessToken)

	// a second login rotates the session id; the old refresh token dies
	_, _, err = svc.Login(ctx, "jane@mixfeed.dev", "password123")
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutDropsSession(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "alex@mixfeed.dev", "password123")
	require.NoError(t, err)

	svc.Logout(ctx, f.alex.ID)

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()
	ctx := context.Background()

	u, err := svc.UpdateProfile(ctx, f.john.ID, UpdateProfileInput{Bio: "updated bio"})
	require.NoError(t, err)
	assert.Equal(t, "updated bio", u.Bio)
	assert.Equal(t, "John Doe", u.Name) // untouched

	u, err = svc.UpdateProfile(ctx, f.john.ID, UpdateProfileInput{Name: "Johnny"})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", u.Name)
	assert.Equal(t, "updated bio", u.Bio)
}

func TestRefreshGarbageToken(t *testing.T) {
	f := newFixture(t)
	svc, closeFn := newAccountService(t, f)
	defer closeFn()

	_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
