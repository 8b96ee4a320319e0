package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
)

func (s *Store) CreateSong(ctx context.Context, song *entity.Song) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO songs (id, title, artist, album, duration)
		VALUES ($1, $2, $3, $4, $5)
	`, song.ID, song.Title, song.Artist, song.Album, song.Duration)
	return err
}

func (s *Store) SongByID(ctx context.Context, id string) (*entity.Song, error) {
	song := &entity.Song{}
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, artist, album, duration FROM songs WHERE id = $1
	`, id)
	if err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Duration); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("song %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return song, nil
}

func (s *Store) ListSongs(ctx context.Context) ([]*entity.Song, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, artist, album, duration FROM songs ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Song
	for rows.Next() {
		song := &entity.Song{}
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Duration); err != nil {
			return nil, err
		}
		out = append(out, song)
	}
	return out, rows.Err()
}
