package application

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
	"github.com/mixfeed/mixfeed/internal/infrastructure/memory"
)

// fixture holds the seeded demo store and the three demo users resolved by
// username so tests can address them directly.
type fixture struct {
	store *memory.Store
	john  *entity.User
	jane  *entity.User
	alex  *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.Seed(ctx, store))

	f := &fixture{store: store}
	var err error
	f.john, err = store.UserByUsername(ctx, "john_doe")
	require.NoError(t, err)
	f.jane, err = store.UserByUsername(ctx, "jane_smith")
	require.NoError(t, err)
	f.alex, err = store.UserByUsername(ctx, "music_fan")
	require.NoError(t, err)
	return f
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestFollowUpdatesBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSocialService(f.store, nil, testLogger())

	require.NoError(t, svc.Follow(ctx, f.alex.ID, f.jane.ID))

	alex, err := f.store.UserByID(ctx, f.alex.ID)
	require.NoError(t, err)
	jane, err := f.store.UserByID(ctx, f.jane.ID)
	require.NoError(t, err)
	assert.Contains(t, alex.Following, f.jane.ID)
	assert.Contains(t, jane.Followers, f.alex.ID)

	// second follow is a no-op
	require.NoError(t, svc.Follow(ctx, f.alex.ID, f.jane.ID))
	again, err := f.store.UserByID(ctx, f.alex.ID)
	require.NoError(t, err)
	assert.Equal(t, alex.Following, again.Following)
}

func TestSelfFollowRejected(t *testing.T) {
	f := newFixture(t)
	svc := NewSocialService(f.store, nil, testLogger())

	err := svc.Follow(context.Background(), f.john.ID, f.john.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestFollowUnknownUser(t *testing.T) {
	f := newFixture(t)
	svc := NewSocialService(f.store, nil, testLogger())

	err := svc.Follow(context.Background(), f.john.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnfollowIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSocialService(f.store, nil, testLogger())

	require.NoError(t, svc.Unfollow(ctx, f.john.ID, f.jane.ID))
	require.NoError(t, svc.Unfollow(ctx, f.john.ID, f.jane.ID))

	john, err := f.store.UserByID(ctx, f.john.ID)
	require.NoError(t, err)
	jane, err := f.store.UserByID(ctx, f.jane.ID)
	require.NoError(t, err)
	assert.NotContains(t, john.Following, f.jane.ID)
	assert.NotContains(t, jane.Followers, f.john.ID)
	// jane still follows john; unfollow is one-directional
	assert.Contains(t, jane.Following, f.john.ID)
}

func TestFeedNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSocialService(f.store, nil, testLogger())

	// john follows jane, who owns Jazz Classics (Jan 18) and Workout Energy (Jan 20)
	feed, err := svc.Feed(ctx, f.john.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "Workout Energy", feed[0].Name)
	assert.Equal(t, "Jazz Classics", feed[1].Name)
}

func TestFeedOnlyFollowedOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSocialService(f.store, nil, testLogger())

	// alex follows only john; only Chill Vibes shows up
	feed, err := svc.Feed(ctx, f.alex.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Chill Vibes", feed[0].Name)
	assert.Equal(t, f.john.ID, feed[0].OwnerID)
}

func TestFeedEmptyWithoutFollows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSocialService(f.store, nil, testLogger())

	loner := &entity.User{ID: "loner", Username: "loner", Email: "loner@mixfeed.dev"}
	require.NoError(t, f.store.CreateUser(ctx, loner))

	feed, err := svc.Feed(ctx, loner.ID)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestFeedCacheInvalidatedOnFollowChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rdb, mr := testRedis(t)
	svc := NewSocialService(f.store, rdb, testLogger())

	_, err := svc.Feed(ctx, f.john.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(feedKey(f.john.ID)))

	require.NoError(t, svc.Follow(ctx, f.john.ID, f.alex.ID))
	assert.False(t, mr.Exists(feedKey(f.john.ID)))

	feed, err := svc.Feed(ctx, f.john.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 2) // alex owns nothing yet
}

func TestFollowersFollowingByUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSocialService(f.store, nil, testLogger())

	followers, err := svc.Followers(ctx, "john_doe")
	require.NoError(t, err)
	names := make([]string, 0, len(followers))
	for _, u := range followers {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"jane_smith", "music_fan"}, names)

	following, err := svc.Following(ctx, "music_fan")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "john_doe", following[0].Username)
}
