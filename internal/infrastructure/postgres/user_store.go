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

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.name, u.bio, u.avatar_url,
	u.created_at, u.updated_at,
	COALESCE(array_agg(DISTINCT fo.followee_id::text) FILTER (WHERE fo.followee_id IS NOT NULL), '{}') AS following,
	COALESCE(array_agg(DISTINCT fr.follower_id::text) FILTER (WHERE fr.follower_id IS NOT NULL), '{}') AS followers
`

const userJoins = `
	FROM users u
	LEFT JOIN follows fo ON fo.follower_id = u.id
	LEFT JOIN follows fr ON fr.followee_id = u.id
`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Name, &u.Bio,
		&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt, &u.Following, &u.Followers); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *entity.User) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, name, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, u.Email, u.Password, u.Name, u.Bio, u.AvatarURL)
	return row.Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (s *Store) UserByID(ctx context.Context, id string) (*entity.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+userJoins+` WHERE u.id = $1 GROUP BY u.id`, id)
	return scanUser(row)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+userJoins+` WHERE u.username = $1 GROUP BY u.id`, username)
	return scanUser(row)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+userJoins+` WHERE u.email = $1 GROUP BY u.id`, email)
	return scanUser(row)
}

func (s *Store) UpdateUser(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := s.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, name = $2, bio = $3, avatar_url = $4, updated_at = $5
		WHERE id = $6
	`, u.Password, u.Name, u.Bio, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*entity.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+userJoins+` GROUP BY u.id ORDER BY u.created_at, u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) SetFollow(ctx context.Context, actorID, targetID string, follow bool) error {
	if follow {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO follows (follower_id, followee_id)
			VALUES ($1, $2)
			ON CONFLICT (follower_id, followee_id) DO NOTHING
		`, actorID, targetID)
		return err
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, actorID, targetID)
	return err
}
