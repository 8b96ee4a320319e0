package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, Seed(context.Background(), s))
	return s
}

func mustUser(t *testing.T, s *Store, username string) *entity.User {
	t.Helper()
	u, err := s.UserByUsername(context.Background(), username)
	require.NoError(t, err)
	return u
}

func TestSeedFixture(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	songs, err := s.ListSongs(ctx)
	require.NoError(t, err)
	assert.Len(t, songs, 10)

	lists, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, "Chill Vibes", lists[0].Name)
	assert.Len(t, lists[0].Songs, 2)
	assert.Len(t, lists[0].Comments, 1)
}

func TestCreateUserUniqueness(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	err := s.CreateUser(ctx, &entity.User{ID: "x1", Username: "john_doe", Email: "fresh@mixfeed.dev"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	err = s.CreateUser(ctx, &entity.User{ID: "x2", Username: "fresh", Email: "john@mixfeed.dev"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestReadsReturnCopies(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	john := mustUser(t, s, "john_doe")
	john.Following = append(john.Following, "garbage")
	john.Name = "Mutated"

	again := mustUser(t, s, "john_doe")
	assert.NotContains(t, again.Following, "garbage")
	assert.Equal(t, "John Doe", again.Name)

	lists, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	lists[0].Likes = append(lists[0].Likes, "garbage")

	fresh, err := s.PlaylistByID(ctx, lists[0].ID)
	require.NoError(t, err)
	assert.NotContains(t, fresh.Likes, "garbage")
}

func TestUpdateUserIgnoresFollowSets(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	john := mustUser(t, s, "john_doe")
	originalFollowing := append([]string(nil), john.Following...)

	john.Bio = "new bio"
	john.Following = []string{"bogus"}
	require.NoError(t, s.UpdateUser(ctx, john))

	got := mustUser(t, s, "john_doe")
	assert.Equal(t, "new bio", got.Bio)
	assert.Equal(t, originalFollowing, got.Following)
}

func TestDeleteUserCascades(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	john := mustUser(t, s, "john_doe")
	jane := mustUser(t, s, "jane_smith")

	lists, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	var chillID, janeComment string
	for _, p := range lists {
		if p.Name == "Chill Vibes" {
			chillID = p.ID
			janeComment = p.Comments[0].ID
		}
	}

	require.NoError(t, s.DeleteUser(ctx, jane.ID))

	// jane's playlists are gone
	remaining, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Chill Vibes", remaining[0].Name)

	// follow sets no longer reference jane
	got, err := s.UserByID(ctx, john.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.Following, jane.ID)
	assert.NotContains(t, got.Followers, jane.ID)

	// jane's like and comment on Chill Vibes are stripped
	chill, err := s.PlaylistByID(ctx, chillID)
	require.NoError(t, err)
	assert.NotContains(t, chill.Likes, jane.ID)
	assert.Empty(t, chill.Comments)
	_, _, err = s.CommentByID(ctx, janeComment)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePlaylistDropsCommentIndex(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	lists, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	chill := lists[0]
	commentID := chill.Comments[0].ID

	require.NoError(t, s.DeletePlaylist(ctx, chill.ID))

	_, err = s.PlaylistByID(ctx, chill.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = s.CommentByID(ctx, commentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPlaylistsByOwners(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	jane := mustUser(t, s, "jane_smith")

	lists, err := s.ListPlaylistsByOwners(ctx, []string{jane.ID})
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Jazz Classics", lists[0].Name)
	assert.Equal(t, "Workout Energy", lists[1].Name)

	none, err := s.ListPlaylistsByOwners(ctx, []string{"nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetLikeReAddAppendsAtEnd(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	jane := mustUser(t, s, "jane_smith")
	alex := mustUser(t, s, "music_fan")
	lists, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	chill := lists[0]
	require.Equal(t, []string{jane.ID, alex.ID}, chill.Likes)

	require.NoError(t, s.SetLike(ctx, chill.ID, jane.ID, false))
	require.NoError(t, s.SetLike(ctx, chill.ID, jane.ID, true))

	got, err := s.PlaylistByID(ctx, chill.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alex.ID, jane.ID}, got.Likes)
}
