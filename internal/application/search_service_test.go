package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.store, testLogger(), nil, "")

	upper, err := svc.Search(context.Background(), "JAZZ")
	require.NoError(t, err)
	lower, err := svc.Search(context.Background(), "jazz")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)

	require.Len(t, upper.Playlists, 1)
	assert.Equal(t, "Jazz Classics", upper.Playlists[0].Name)
	// Blue Notes (Jazz Quartet) and Smooth Saxophone (Classic Jazz) match by artist
	require.Len(t, upper.Songs, 2)
	assert.Equal(t, "Blue Notes", upper.Songs[0].Title)
	assert.Equal(t, "Smooth Saxophone", upper.Songs[1].Title)
	assert.Empty(t, upper.Users)
}

func TestSearchMatchesUsernameAndName(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.store, testLogger(), nil, "")

	res, err := svc.Search(context.Background(), "john")
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "john_doe", res.Users[0].Username)

	// "Alex Johnson" matches by display name
	res, err = svc.Search(context.Background(), "alex")
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "music_fan", res.Users[0].Username)
}

func TestSearchBlankQueryReturnsEmpty(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.store, testLogger(), nil, "")

	for _, q := range []string{"", "   ", "\t"} {
		res, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, res.Users)
		assert.Empty(t, res.Users)
		assert.Empty(t, res.Playlists)
		assert.Empty(t, res.Songs)
	}
}

func TestSearchNoMatches(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.store, testLogger(), nil, "")

	res, err := svc.Search(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, res.Users)
	assert.Empty(t, res.Playlists)
	assert.Empty(t, res.Songs)
}

func TestSuggestWithoutESIsEmpty(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.store, testLogger(), nil, "")

	out, err := svc.SuggestUsers(context.Background(), "jo", 5)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
