package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
)

func (s *Store) CreatePlaylist(ctx context.Context, p *entity.Playlist) error {
	var row pgx.Row
	if p.CreatedAt.IsZero() {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO playlists (id, name, description, owner_id)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at
		`, p.ID, p.Name, p.Description, p.OwnerID)
	} else {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO playlists (id, name, description, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at
		`, p.ID, p.Name, p.Description, p.OwnerID, p.CreatedAt)
	}
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *Store) PlaylistByID(ctx context.Context, id string) (*entity.Playlist, error) {
	p := &entity.Playlist{}
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if err := s.fillPlaylists(ctx, []*entity.Playlist{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) UpdatePlaylist(ctx context.Context, p *entity.Playlist) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.pool.Exec(ctx, `
		UPDATE playlists SET name = $1, description = $2, updated_at = $3 WHERE id = $4
	`, p.Name, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("playlist %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListPlaylists(ctx context.Context) ([]*entity.Playlist, error) {
	return s.queryPlaylists(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists ORDER BY seq
	`)
}

func (s *Store) ListPlaylistsByOwners(ctx context.Context, ownerIDs []string) ([]*entity.Playlist, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	return s.queryPlaylists(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists WHERE owner_id = ANY($1) ORDER BY seq
	`, ownerIDs)
}

func (s *Store) queryPlaylists(ctx context.Context, sql string, args ...any) ([]*entity.Playlist, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Playlist
	for rows.Next() {
		p := &entity.Playlist{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.fillPlaylists(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fillPlaylists loads songs, likes and comments for the given playlists in
// three batched queries.
func (s *Store) fillPlaylists(ctx context.Context, playlists []*entity.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Playlist, len(playlists))
	ids := make([]string, 0, len(playlists))
	for _, p := range playlists {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT ps.playlist_id, sg.id, sg.title, sg.artist, sg.album, sg.duration
		FROM playlist_songs ps
		JOIN songs sg ON sg.id = ps.song_id
		WHERE ps.playlist_id = ANY($1)
		ORDER BY ps.seq
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var pid string
		var sg entity.Song
		if err := rows.Scan(&pid, &sg.ID, &sg.Title, &sg.Artist, &sg.Album, &sg.Duration); err != nil {
			rows.Close()
			return err
		}
		byID[pid].Songs = append(byID[pid].Songs, sg)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT playlist_id, user_id
		FROM playlist_likes
		WHERE playlist_id = ANY($1)
		ORDER BY seq
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var pid, uid string
		if err := rows.Scan(&pid, &uid); err != nil {
			rows.Close()
			return err
		}
		byID[pid].Likes = append(byID[pid].Likes, uid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT playlist_id, id, author_id, body, created_at
		FROM comments
		WHERE playlist_id = ANY($1)
		ORDER BY seq
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pid string
		var c entity.Comment
		if err := rows.Scan(&pid, &c.ID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return err
		}
		byID[pid].Comments = append(byID[pid].Comments, c)
	}
	return rows.Err()
}

func (s *Store) AddPlaylistSong(ctx context.Context, playlistID string, song entity.Song) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`, playlistID, song.ID)
	return err
}

func (s *Store) RemovePlaylistSong(ctx context.Context, playlistID, songID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	return err
}

func (s *Store) SetLike(ctx context.Context, playlistID, userID string, liked bool) error {
	if liked {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO playlist_likes (playlist_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (playlist_id, user_id) DO NOTHING
		`, playlistID, userID)
		return err
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM playlist_likes WHERE playlist_id = $1 AND user_id = $2
	`, playlistID, userID)
	return err
}

func (s *Store) AddComment(ctx context.Context, playlistID string, c *entity.Comment) error {
	var row pgx.Row
	if c.CreatedAt.IsZero() {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO comments (id, playlist_id, author_id, body)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, c.ID, playlistID, c.AuthorID, c.Text)
	} else {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO comments (id, playlist_id, author_id, body, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`, c.ID, playlistID, c.AuthorID, c.Text, c.CreatedAt)
	}
	return row.Scan(&c.CreatedAt)
}

func (s *Store) CommentByID(ctx context.Context, commentID string) (*entity.Comment, string, error) {
	c := &entity.Comment{}
	var playlistID string
	row := s.pool.QueryRow(ctx, `
		SELECT id, playlist_id, author_id, body, created_at
		FROM comments WHERE id = $1
	`, commentID)
	if err := row.Scan(&c.ID, &playlistID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
		}
		return nil, "", err
	}
	return c, playlistID, nil
}

func (s *Store) UpdateComment(ctx context.Context, commentID, text string) error {
	res, err := s.pool.Exec(ctx, `UPDATE comments SET body = $1 WHERE id = $2`, text, commentID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	res, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	return nil
}
