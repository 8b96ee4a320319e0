package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixfeed/mixfeed/internal/application"
	"github.com/mixfeed/mixfeed/internal/domain/entity"
	"github.com/mixfeed/mixfeed/internal/infrastructure/memory"
	"github.com/mixfeed/mixfeed/internal/interface/middleware"
	"github.com/mixfeed/mixfeed/pkg/helpers"
	"github.com/mixfeed/mixfeed/pkg/validation"
)

// testEnv wires the seeded memory store through the real services, handlers
// and auth middleware, minus the external systems (no redis, no ES, no GCS).
type testEnv struct {
	router *gin.Engine
	jwt    *helpers.JWTManager
	john   *entity.User
	jane   *entity.User
	alex   *entity.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	ctx := context.Background()

	store := memory.NewStore()
	require.NoError(t, memory.Seed(ctx, store))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	accounts := application.NewAccountService(store, jwt, nil, logger, nil, "", nil, nil, "")
	social := application.NewSocialService(store, nil, logger)
	playlists := application.NewPlaylistService(store, social, logger, nil, "")
	search := application.NewSearchService(store, logger, nil, "")

	ah := NewAccountHandler(accounts, logger)
	uh := NewUserHandler(accounts, social, logger)
	ph := NewPlaylistHandler(playlists, social, logger)
	sh := NewSearchHandler(search, logger)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/login", ah.Login)

	auth := api.Group("/")
	auth.Use(middleware.Auth(nil, jwt))
	{
		auth.GET("/users/me", ah.Me)
		auth.GET("/users/:username", uh.GetByUsername)
		auth.POST("/users/:username/follow", uh.Follow)
		auth.DELETE("/users/:username/follow", uh.Unfollow)
		auth.GET("/users/:username/followers", uh.Followers)

		auth.GET("/playlists/", ph.List)
		auth.GET("/playlists/feed", ph.Feed)
		auth.POST("/playlists/", ph.Create)
		auth.GET("/playlists/:id", ph.Get)
		auth.DELETE("/playlists/:id", ph.Delete)
		auth.POST("/playlists/:id/like", ph.Like)
		auth.DELETE("/playlists/:id/like", ph.Unlike)
		auth.POST("/playlists/:id/comments", ph.AddComment)

		auth.GET("/search", sh.Search)
	}

	env := &testEnv{router: r, jwt: jwt}
	var err error
	env.john, err = store.UserByUsername(ctx, "john_doe")
	require.NoError(t, err)
	env.jane, err = store.UserByUsername(ctx, "jane_smith")
	require.NoError(t, err)
	env.alex, err = store.UserByUsername(ctx, "music_fan")
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(t *testing.T, as *entity.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		token, _, err := e.jwt.GenerateAccessToken(as.ID, "sid")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestLoginEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, nil, http.MethodPost, "/api/v1/auth/login", `{"email":"john@mixfeed.dev","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")

	w = e.do(t, nil, http.MethodPost, "/api/v1/auth/login", `{"email":"john@mixfeed.dev","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, e.john, http.MethodGet, "/api/v1/users/jane_smith", "")
	require.Equal(t, http.StatusOK, w.Code)
	var u UserView
	decodeData(t, w, &u)
	assert.Equal(t, "jane_smith", u.Username)
	// public views carry no credential material
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "jane@mixfeed.dev")

	w = e.do(t, e.john, http.MethodGet, "/api/v1/users/nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, nil, http.MethodGet, "/api/v1/users/jane_smith", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowEndpoints(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, e.alex, http.MethodPost, "/api/v1/users/jane_smith/follow", "")
	require.Equal(t, http.StatusOK, w.Code)
	var u UserView
	decodeData(t, w, &u)
	assert.Contains(t, u.Followers, e.alex.ID)

	// self-follow maps to 409
	w = e.do(t, e.jane, http.MethodPost, "/api/v1/users/jane_smith/follow", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, e.alex, http.MethodDelete, "/api/v1/users/jane_smith/follow", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &u)
	assert.NotContains(t, u.Followers, e.alex.ID)
}

func TestPlaylistEndpoints(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, e.john, http.MethodPost, "/api/v1/playlists/", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "is required")

	w = e.do(t, e.john, http.MethodPost, "/api/v1/playlists/", `{"name":"Road Trip","description":"windows down"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created PlaylistView
	decodeData(t, w, &created)
	assert.Equal(t, e.john.ID, created.OwnerID)

	// someone else cannot delete it
	w = e.do(t, e.jane, http.MethodDelete, "/api/v1/playlists/"+created.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, e.john, http.MethodDelete, "/api/v1/playlists/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, e.john, http.MethodGet, "/api/v1/playlists/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, e.john, http.MethodGet, "/api/v1/playlists/feed", "")
	require.Equal(t, http.StatusOK, w.Code)
	var feed []PlaylistView
	decodeData(t, w, &feed)
	require.Len(t, feed, 2)
	assert.Equal(t, "Workout Energy", feed[0].Name)
}

func TestLikeEndpoints(t *testing.T) {
	e := newTestEnv(t)

	var lists []PlaylistView
	w := e.do(t, e.john, http.MethodGet, "/api/v1/playlists/", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &lists)
	chill := lists[0]

	w = e.do(t, e.john, http.MethodPost, "/api/v1/playlists/"+chill.ID+"/like", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, e.john, http.MethodGet, "/api/v1/playlists/"+chill.ID, "")
	var got PlaylistView
	decodeData(t, w, &got)
	assert.Contains(t, got.Likes, e.john.ID)

	w = e.do(t, e.john, http.MethodDelete, "/api/v1/playlists/"+chill.ID+"/like", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, e.john, http.MethodGet, "/api/v1/playlists/"+chill.ID, "")
	decodeData(t, w, &got)
	assert.NotContains(t, got.Likes, e.john.ID)
}

func TestCommentEndpointValidation(t *testing.T) {
	e := newTestEnv(t)

	var lists []PlaylistView
	w := e.do(t, e.john, http.MethodGet, "/api/v1/playlists/", "")
	decodeData(t, w, &lists)

	w = e.do(t, e.alex, http.MethodPost, "/api/v1/playlists/"+lists[0].ID+"/comments", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, e.alex, http.MethodPost, "/api/v1/playlists/"+lists[0].ID+"/comments", `{"text":"nice one"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var cm CommentView
	decodeData(t, w, &cm)
	assert.Equal(t, e.alex.ID, cm.AuthorID)
	assert.Equal(t, "nice one", cm.Text)
}

func TestSearchEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, e.john, http.MethodGet, "/api/v1/search?q=JAZZ", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Users     []UserView     `json:"users"`
		Playlists []PlaylistView `json:"playlists"`
		Songs     []SongView     `json:"songs"`
	}
	decodeData(t, w, &res)
	assert.Len(t, res.Playlists, 1)
	assert.Len(t, res.Songs, 2)

	w = e.do(t, e.john, http.MethodGet, "/api/v1/search?q=", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &res)
	assert.Empty(t, res.Users)
	assert.Empty(t, res.Playlists)
	assert.Empty(t, res.Songs)
}
