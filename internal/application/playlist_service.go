package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
	repo "github.com/mixfeed/mixfeed/internal/domain/repository"
)

// PlaylistService owns playlist lifecycle, song membership, likes and
// comments. Ownership rules: metadata, songs and deletion are owner-only;
// likes and comments are open to any user.
type PlaylistService struct {
	Store            repo.Store
	Social           *SocialService
	Logger           *logrus.Logger
	ES               *elasticsearch.Client
	ESPlaylistsIndex string
}

func NewPlaylistService(store repo.Store, social *SocialService, logger *logrus.Logger, es *elasticsearch.Client, esPlaylistsIndex string) *PlaylistService {
	return &PlaylistService{Store: store, Social: social, Logger: logger, ES: es, ESPlaylistsIndex: esPlaylistsIndex}
}

type CreatePlaylistInput struct {
	Name        string
	Description string
}

type UpdatePlaylistInput struct {
	Name        string
	Description string
}

// SongInput either references a catalog song by id or describes an ad hoc
// entry. Ad hoc entries are registered in the catalog so they stay
// searchable and reusable.
type SongInput struct {
	SongID   string
	Title    string
	Artist   string
	Album    string
	Duration int
}

func (s *PlaylistService) Create(ctx context.Context, ownerID string, in CreatePlaylistInput) (*entity.Playlist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("playlist name required: %w", domain.ErrInvalidArgument)
	}
	p := &entity.Playlist{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Store.CreatePlaylist(ctx, p); err != nil {
		return nil, err
	}
	s.Social.InvalidateFeedsOfFollowers(ctx, ownerID)
	_ = s.indexPlaylist(ctx, p)
	return p, nil
}

func (s *PlaylistService) Get(ctx context.Context, id string) (*entity.Playlist, error) {
	return s.Store.PlaylistByID(ctx, id)
}

func (s *PlaylistService) List(ctx context.Context) ([]*entity.Playlist, error) {
	return s.Store.ListPlaylists(ctx)
}

// Update merges name/description; songs, likes and comments are untouched.
func (s *PlaylistService) Update(ctx context.Context, playlistID, requesterID string, in UpdatePlaylistInput) (*entity.Playlist, error) {
	p, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if err := s.Store.UpdatePlaylist(ctx, p); err != nil {
		return nil, err
	}
	_ = s.indexPlaylist(ctx, p)
	return p, nil
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, requesterID string) error {
	p, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return err
	}
	if err := s.Store.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}
	s.Social.InvalidateFeedsOfFollowers(ctx, p.OwnerID)
	s.deletePlaylistIndex(ctx, playlistID)
	return nil
}

// AddSong appends a song to the playlist. Adding a song id already present
// is a no-op.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, requesterID string, in SongInput) (*entity.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}
	var song *entity.Song
	if in.SongID != "" {
		found, err := s.Store.SongByID(ctx, in.SongID)
		if err != nil {
			return nil, err
		}
		song = found
	} else {
		if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Artist) == "" {
			return nil, fmt.Errorf("song title and artist required: %w", domain.ErrInvalidArgument)
		}
		song = &entity.Song{
			ID:       uuid.NewString(),
			Title:    in.Title,
			Artist:   in.Artist,
			Album:    in.Album,
			Duration: in.Duration,
		}
		if err := s.Store.CreateSong(ctx, song); err != nil {
			return nil, err
		}
	}
	if err := s.Store.AddPlaylistSong(ctx, playlistID, *song); err != nil {
		return nil, err
	}
	return s.Store.PlaylistByID(ctx, playlistID)
}

// RemoveSong removes a song; an absent song id is a no-op.
func (s *PlaylistService) RemoveSong(ctx context.Context, playlistID, requesterID, songID string) (*entity.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}
	if err := s.Store.RemovePlaylistSong(ctx, playlistID, songID); err != nil {
		return nil, err
	}
	return s.Store.PlaylistByID(ctx, playlistID)
}

// ToggleLike flips the user's membership in the like set and reports the
// resulting state. A re-added like appends at the end of the list.
func (s *PlaylistService) ToggleLike(ctx context.Context, playlistID, userID string) (bool, error) {
	p, err := s.Store.PlaylistByID(ctx, playlistID)
	if err != nil {
		return false, err
	}
	liked := !p.LikedBy(userID)
	if err := s.Store.SetLike(ctx, playlistID, userID, liked); err != nil {
		return false, err
	}
	return liked, nil
}

// Like and Unlike are the idempotent halves backing POST/DELETE like routes.
func (s *PlaylistService) Like(ctx context.Context, playlistID, userID string) error {
	if _, err := s.Store.PlaylistByID(ctx, playlistID); err != nil {
		return err
	}
	return s.Store.SetLike(ctx, playlistID, userID, true)
}

func (s *PlaylistService) Unlike(ctx context.Context, playlistID, userID string) error {
	if _, err := s.Store.PlaylistByID(ctx, playlistID); err != nil {
		return err
	}
	return s.Store.SetLike(ctx, playlistID, userID, false)
}

func (s *PlaylistService) Comments(ctx context.Context, playlistID string) ([]entity.Comment, error) {
	p, err := s.Store.PlaylistByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (s *PlaylistService) AddComment(ctx context.Context, playlistID, authorID, text string) (*entity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty comment: %w", domain.ErrInvalidArgument)
	}
	if _, err := s.Store.UserByID(ctx, authorID); err != nil {
		return nil, err
	}
	c := &entity.Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.AddComment(ctx, playlistID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateComment is author-only.
func (s *PlaylistService) UpdateComment(ctx context.Context, commentID, requesterID, text string) (*entity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty comment: %w", domain.ErrInvalidArgument)
	}
	c, _, err := s.Store.CommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != requesterID {
		return nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrUnauthorized)
	}
	if err := s.Store.UpdateComment(ctx, commentID, text); err != nil {
		return nil, err
	}
	c.Text = text
	return c, nil
}

// DeleteComment allows the comment author or the playlist owner.
func (s *PlaylistService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	c, playlistID, err := s.Store.CommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != requesterID {
		p, err := s.Store.PlaylistByID(ctx, playlistID)
		if err != nil {
			return err
		}
		if p.OwnerID != requesterID {
			return fmt.Errorf("comment %s: %w", commentID, domain.ErrUnauthorized)
		}
	}
	return s.Store.DeleteComment(ctx, commentID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, playlistID, requesterID string) (*entity.Playlist, error) {
	p, err := s.Store.PlaylistByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != requesterID {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, domain.ErrUnauthorized)
	}
	return p, nil
}

func (s *PlaylistService) indexPlaylist(ctx context.Context, p *entity.Playlist) error {
	if s.ES == nil || s.ESPlaylistsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"owner_id":    p.OwnerID,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPlaylistsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("playlist_id", p.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("playlist_id", p.ID).Warn("es index response error")
	}
	return nil
}

func (s *PlaylistService) deletePlaylistIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESPlaylistsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPlaylistsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("playlist_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}
