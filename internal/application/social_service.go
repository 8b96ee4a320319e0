package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
	repo "github.com/mixfeed/mixfeed/internal/domain/repository"
	"github.com/mixfeed/mixfeed/pkg/helpers"
)

const feedCacheTTL = 30 * time.Second

func feedKey(userID string) string {
	return "feed:" + userID
}

// SocialService owns the follow graph and feed derivation. Follow and
// Unfollow are distinct idempotent verbs; each updates both sides of the
// relationship through a single store call.
type SocialService struct {
	Store  repo.Store
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewSocialService(store repo.Store, rdb *redis.Client, logger *logrus.Logger) *SocialService {
	return &SocialService{Store: store, Redis: rdb, Logger: logger}
}

func (s *SocialService) Follow(ctx context.Context, actorID, targetID string) error {
	return s.setFollow(ctx, actorID, targetID, true)
}

func (s *SocialService) Unfollow(ctx context.Context, actorID, targetID string) error {
	return s.setFollow(ctx, actorID, targetID, false)
}

func (s *SocialService) setFollow(ctx context.Context, actorID, targetID string, follow bool) error {
	if actorID == targetID {
		return fmt.Errorf("self-follow: %w", domain.ErrInvalidOperation)
	}
	if _, err := s.Store.UserByID(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.Store.UserByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.Store.SetFollow(ctx, actorID, targetID, follow); err != nil {
		return err
	}
	s.invalidateFeed(ctx, actorID)
	return nil
}

// IsFollowing is a pure read; unknown ids report false.
func (s *SocialService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	actor, err := s.Store.UserByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	return actor.IsFollowing(targetID), nil
}

// Feed returns the playlists owned by users the viewer follows, most recent
// first with stable ties. Absence of followed users or playlists yields an
// empty slice, never an error.
func (s *SocialService) Feed(ctx context.Context, userID string) ([]*entity.Playlist, error) {
	if s.Redis != nil {
		var cached []*entity.Playlist
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, feedKey(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	feed := []*entity.Playlist{}
	if len(user.Following) > 0 {
		lists, err := s.Store.ListPlaylistsByOwners(ctx, user.Following)
		if err != nil {
			return nil, err
		}
		feed = append(feed, lists...)
		sort.SliceStable(feed, func(i, j int) bool {
			return feed[i].CreatedAt.After(feed[j].CreatedAt)
		})
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, feedKey(userID), feed, feedCacheTTL); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("feed cache write failed")
		}
	}
	return feed, nil
}

func (s *SocialService) Followers(ctx context.Context, username string) ([]*entity.User, error) {
	u, err := s.Store.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.usersByIDs(ctx, u.Followers)
}

func (s *SocialService) Following(ctx context.Context, username string) ([]*entity.User, error) {
	u, err := s.Store.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.usersByIDs(ctx, u.Following)
}

// usersByIDs resolves ids leniently: an id whose user has since been removed
// is skipped rather than surfaced as an error.
func (s *SocialService) usersByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.Store.UserByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *SocialService) invalidateFeed(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, feedKey(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("feed cache invalidation failed")
	}
}

// InvalidateFeedsOfFollowers drops cached feeds of every follower of the
// given owner; called when the owner's playlist set changes.
func (s *SocialService) InvalidateFeedsOfFollowers(ctx context.Context, ownerID string) {
	if s.Redis == nil {
		return
	}
	owner, err := s.Store.UserByID(ctx, ownerID)
	if err != nil {
		return
	}
	for _, id := range owner.Followers {
		s.invalidateFeed(ctx, id)
	}
}
