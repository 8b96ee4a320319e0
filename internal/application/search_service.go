package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/mixfeed/mixfeed/internal/domain/entity"
	repo "github.com/mixfeed/mixfeed/internal/domain/repository"
)

// SearchService matches users, playlists and songs by case-insensitive
// substring containment, preserving store iteration order. The canonical
// search never touches Elasticsearch; ES only backs the separate suggestion
// endpoint.
type SearchService struct {
	Store        repo.Store
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewSearchService(store repo.Store, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *SearchService {
	return &SearchService{Store: store, Logger: logger, ES: es, ESUsersIndex: esUsersIndex}
}

type SearchResult struct {
	Users     []*entity.User     `json:"users"`
	Playlists []*entity.Playlist `json:"playlists"`
	Songs     []*entity.Song     `json:"songs"`
}

// Search returns empty result sets for a blank query; it never treats blank
// as match-everything and never errors on absence of data.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	res := &SearchResult{
		Users:     []*entity.User{},
		Playlists: []*entity.Playlist{},
		Songs:     []*entity.Song{},
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res, nil
	}

	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if contains(u.Username, q) || contains(u.Name, q) {
			res.Users = append(res.Users, u)
		}
	}

	playlists, err := s.Store.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		if contains(p.Name, q) || contains(p.Description, q) {
			res.Playlists = append(res.Playlists, p)
		}
	}

	songs, err := s.Store.ListSongs(ctx)
	if err != nil {
		return nil, err
	}
	for _, sg := range songs {
		if contains(sg.Title, q) || contains(sg.Artist, q) {
			res.Songs = append(res.Songs, sg)
		}
	}
	return res, nil
}

func contains(field, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(field), loweredQuery)
}

// SuggestUsers serves relevance-ranked user suggestions from Elasticsearch.
// Returns an empty slice when ES is not configured.
func (s *SearchService) SuggestUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
