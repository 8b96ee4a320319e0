package repository

import (
	"context"

	"github.com/mixfeed/mixfeed/internal/domain/entity"
)

// Store is the Entity Store contract: the single source of truth for users,
// playlists, songs and comments. Two adapters implement it — the in-memory
// store used for demos and tests, and the Postgres store used in production —
// selected by configuration at startup.
//
// Every mutation is a single read-modify-write against the adapter. Methods
// that touch a relationship (SetFollow, SetLike) update both sides in one
// call so no caller ever observes a half-applied relationship.
type Store interface {
	UserStore
	PlaylistStore
	SongStore
}

type UserStore interface {
	CreateUser(ctx context.Context, u *entity.User) error
	UserByID(ctx context.Context, id string) (*entity.User, error)
	UserByUsername(ctx context.Context, username string) (*entity.User, error)
	UserByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateUser persists profile fields (name, bio, avatar). Follow sets are
	// only written through SetFollow.
	UpdateUser(ctx context.Context, u *entity.User) error
	// DeleteUser removes the user and strips its id from every follow set and
	// every playlist like set, and deletes its playlists and comments.
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*entity.User, error)
	// SetFollow makes actor follow (or unfollow) target, updating actor's
	// following and target's followers atomically. Idempotent.
	SetFollow(ctx context.Context, actorID, targetID string, follow bool) error
}

type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, p *entity.Playlist) error
	PlaylistByID(ctx context.Context, id string) (*entity.Playlist, error)
	// UpdatePlaylist persists name/description. Songs, likes and comments are
	// only written through their dedicated methods.
	UpdatePlaylist(ctx context.Context, p *entity.Playlist) error
	DeletePlaylist(ctx context.Context, id string) error
	ListPlaylists(ctx context.Context) ([]*entity.Playlist, error)
	// ListPlaylistsByOwners returns every playlist whose owner id is in the
	// given set, in store iteration order.
	ListPlaylistsByOwners(ctx context.Context, ownerIDs []string) ([]*entity.Playlist, error)
	// AddPlaylistSong appends the song; adding an id already present is a no-op.
	AddPlaylistSong(ctx context.Context, playlistID string, s entity.Song) error
	// RemovePlaylistSong removes the song; an absent id is a no-op.
	RemovePlaylistSong(ctx context.Context, playlistID, songID string) error
	// SetLike adds or removes the user id in the playlist like set. Re-adding
	// appends at the end. Idempotent.
	SetLike(ctx context.Context, playlistID, userID string, liked bool) error
	AddComment(ctx context.Context, playlistID string, c *entity.Comment) error
	// CommentByID resolves a comment and the id of the playlist holding it.
	CommentByID(ctx context.Context, commentID string) (*entity.Comment, string, error)
	UpdateComment(ctx context.Context, commentID, text string) error
	DeleteComment(ctx context.Context, commentID string) error
}

type SongStore interface {
	// CreateSong adds a song to the shared catalog.
	CreateSong(ctx context.Context, s *entity.Song) error
	SongByID(ctx context.Context, id string) (*entity.Song, error)
	ListSongs(ctx context.Context) ([]*entity.Song, error)
}
