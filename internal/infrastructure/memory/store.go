package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
	"github.com/mixfeed/mixfeed/internal/domain/repository"
)

// Store is the in-memory Entity Store adapter. It is constructed explicitly
// (no package-level state) and handed to services by the caller, so tests and
// demo deployments get an isolated instance each.
//
// Insertion order of users, playlists and catalog songs is preserved so that
// search results iterate in a stable, deterministic order.
type Store struct {
	mu sync.Mutex

	users     map[string]*entity.User
	userOrder []string

	playlists     map[string]*entity.Playlist
	playlistOrder []string

	songs     map[string]*entity.Song
	songOrder []string

	// commentIndex maps comment id to owning playlist id.
	commentIndex map[string]string
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]*entity.User),
		playlists:    make(map[string]*entity.Playlist),
		songs:        make(map[string]*entity.Song),
		commentIndex: make(map[string]string),
	}
}

var _ repository.Store = (*Store)(nil)

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("user id %s exists: %w", u.ID, domain.ErrInvalidOperation)
	}
	for _, other := range s.users {
		if other.Username == u.Username {
			return fmt.Errorf("username %s taken: %w", u.Username, domain.ErrInvalidOperation)
		}
		if other.Email == u.Email {
			return fmt.Errorf("email %s taken: %w", u.Email, domain.ErrInvalidOperation)
		}
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users[u.ID] = cloneUser(u)
	s.userOrder = append(s.userOrder, u.ID)
	return nil
}

func (s *Store) UserByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.userOrder {
		if u := s.users[id]; u != nil && u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
}

func (s *Store) UserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.userOrder {
		if u := s.users[id]; u != nil && u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (s *Store) UpdateUser(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	// Username is immutable and follow sets belong to SetFollow.
	cur.Name = u.Name
	cur.Bio = u.Bio
	cur.AvatarURL = u.AvatarURL
	cur.Password = u.Password
	cur.UpdatedAt = time.Now().UTC()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)

	// Strip the id from every other user's follow sets.
	for _, u := range s.users {
		u.Following = removeID(u.Following, id)
		u.Followers = removeID(u.Followers, id)
	}

	// Drop owned playlists, then strip likes and comments elsewhere.
	for _, pid := range append([]string(nil), s.playlistOrder...) {
		p := s.playlists[pid]
		if p == nil {
			continue
		}
		if p.OwnerID == id {
			s.deletePlaylistLocked(pid)
			continue
		}
		p.Likes = removeID(p.Likes, id)
		kept := p.Comments[:0]
		for _, c := range p.Comments {
			if c.AuthorID == id {
				delete(s.commentIndex, c.ID)
				continue
			}
			kept = append(kept, c)
		}
		p.Comments = kept
	}
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, cloneUser(s.users[id]))
	}
	return out, nil
}

func (s *Store) SetFollow(_ context.Context, actorID, targetID string, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.users[actorID]
	if !ok {
		return fmt.Errorf("user %s: %w", actorID, domain.ErrNotFound)
	}
	target, ok := s.users[targetID]
	if !ok {
		return fmt.Errorf("user %s: %w", targetID, domain.ErrNotFound)
	}
	if follow {
		actor.Following = appendUnique(actor.Following, targetID)
		target.Followers = appendUnique(target.Followers, actorID)
	} else {
		actor.Following = removeID(actor.Following, targetID)
		target.Followers = removeID(target.Followers, actorID)
	}
	return nil
}

// ---- playlists ----

func (s *Store) CreatePlaylist(_ context.Context, p *entity.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.playlists[p.ID]; ok {
		return fmt.Errorf("playlist id %s exists: %w", p.ID, domain.ErrInvalidOperation)
	}
	if _, ok := s.users[p.OwnerID]; !ok {
		return fmt.Errorf("owner %s: %w", p.OwnerID, domain.ErrNotFound)
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.playlists[p.ID] = clonePlaylist(p)
	s.playlistOrder = append(s.playlistOrder, p.ID)
	for _, c := range p.Comments {
		s.commentIndex[c.ID] = p.ID
	}
	return nil
}

func (s *Store) PlaylistByID(_ context.Context, id string) (*entity.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[id]
	if !ok {
		return nil, fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
	}
	return clonePlaylist(p), nil
}

func (s *Store) UpdatePlaylist(_ context.Context, p *entity.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.playlists[p.ID]
	if !ok {
		return fmt.Errorf("playlist %s: %w", p.ID, domain.ErrNotFound)
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.UpdatedAt = time.Now().UTC()
	p.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) DeletePlaylist(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.playlists[id]; !ok {
		return fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
	}
	s.deletePlaylistLocked(id)
	return nil
}

func (s *Store) deletePlaylistLocked(id string) {
	if p := s.playlists[id]; p != nil {
		for _, c := range p.Comments {
			delete(s.commentIndex, c.ID)
		}
	}
	delete(s.playlists, id)
	s.playlistOrder = removeID(s.playlistOrder, id)
}

func (s *Store) ListPlaylists(_ context.Context) ([]*entity.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Playlist, 0, len(s.playlistOrder))
	for _, id := range s.playlistOrder {
		out = append(out, clonePlaylist(s.playlists[id]))
	}
	return out, nil
}

func (s *Store) ListPlaylistsByOwners(_ context.Context, ownerIDs []string) ([]*entity.Playlist, error) {
	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Playlist
	for _, id := range s.playlistOrder {
		p := s.playlists[id]
		if _, ok := owners[p.OwnerID]; ok {
			out = append(out, clonePlaylist(p))
		}
	}
	return out, nil
}

func (s *Store) AddPlaylistSong(_ context.Context, playlistID string, song entity.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: %w", playlistID, domain.ErrNotFound)
	}
	if p.HasSong(song.ID) {
		return nil
	}
	p.Songs = append(p.Songs, song)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) RemovePlaylistSong(_ context.Context, playlistID, songID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: %w", playlistID, domain.ErrNotFound)
	}
	kept := p.Songs[:0]
	for _, sg := range p.Songs {
		if sg.ID != songID {
			kept = append(kept, sg)
		}
	}
	p.Songs = kept
	return nil
}

func (s *Store) SetLike(_ context.Context, playlistID, userID string, liked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: %w", playlistID, domain.ErrNotFound)
	}
	if liked {
		p.Likes = appendUnique(p.Likes, userID)
	} else {
		p.Likes = removeID(p.Likes, userID)
	}
	return nil
}

// ---- comments ----

func (s *Store) AddComment(_ context.Context, playlistID string, c *entity.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: %w", playlistID, domain.ErrNotFound)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	p.Comments = append(p.Comments, *c)
	s.commentIndex[c.ID] = playlistID
	return nil
}

func (s *Store) CommentByID(_ context.Context, commentID string) (*entity.Comment, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, ok := s.commentIndex[commentID]
	if !ok {
		return nil, "", fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	p := s.playlists[pid]
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			c := p.Comments[i]
			return &c, pid, nil
		}
	}
	return nil, "", fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
}

func (s *Store) UpdateComment(_ context.Context, commentID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, ok := s.commentIndex[commentID]
	if !ok {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	p := s.playlists[pid]
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments[i].Text = text
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
}

func (s *Store) DeleteComment(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, ok := s.commentIndex[commentID]
	if !ok {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	p := s.playlists[pid]
	kept := p.Comments[:0]
	for _, c := range p.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	p.Comments = kept
	delete(s.commentIndex, commentID)
	return nil
}

// ---- catalog songs ----

func (s *Store) CreateSong(_ context.Context, song *entity.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.songs[song.ID]; ok {
		return fmt.Errorf("song id %s exists: %w", song.ID, domain.ErrInvalidOperation)
	}
	cp := *song
	s.songs[song.ID] = &cp
	s.songOrder = append(s.songOrder, song.ID)
	return nil
}

func (s *Store) SongByID(_ context.Context, id string) (*entity.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.songs[id]
	if !ok {
		return nil, fmt.Errorf("song %s: %w", id, domain.ErrNotFound)
	}
	cp := *song
	return &cp, nil
}

func (s *Store) ListSongs(_ context.Context) ([]*entity.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Song, 0, len(s.songOrder))
	for _, id := range s.songOrder {
		cp := *s.songs[id]
		out = append(out, &cp)
	}
	return out, nil
}

// ---- helpers ----

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.Following = append([]string(nil), u.Following...)
	cp.Followers = append([]string(nil), u.Followers...)
	return &cp
}

func clonePlaylist(p *entity.Playlist) *entity.Playlist {
	cp := *p
	cp.Songs = append([]entity.Song(nil), p.Songs...)
	cp.Likes = append([]string(nil), p.Likes...)
	cp.Comments = append([]entity.Comment(nil), p.Comments...)
	return &cp
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
