package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mixfeed/mixfeed/internal/application"
	"github.com/mixfeed/mixfeed/internal/interface/middleware"
	"github.com/mixfeed/mixfeed/pkg/response"
	"github.com/mixfeed/mixfeed/pkg/validation"
)

type PlaylistHandler struct {
	Playlists *application.PlaylistService
	Social    *application.SocialService
	Logger    *logrus.Logger
}

func NewPlaylistHandler(playlists *application.PlaylistService, social *application.SocialService, logger *logrus.Logger) *PlaylistHandler {
	return &PlaylistHandler{Playlists: playlists, Social: social, Logger: logger}
}

type createPlaylistRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description"`
}

type updatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addSongRequest struct {
	SongID   string `json:"song_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *PlaylistHandler) List(c *gin.Context) {
	lists, err := h.Playlists.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaylistViews(lists), "playlists", nil)
}

func (h *PlaylistHandler) Feed(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	feed, err := h.Social.Feed(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaylistViews(feed), "feed", nil)
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Playlists.Create(c.Request.Context(), uid, application.CreatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toPlaylistView(p), "playlist created", nil)
}

func (h *PlaylistHandler) Get(c *gin.Context) {
	p, err := h.Playlists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaylistView(p), "playlist", nil)
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Playlists.Update(c.Request.Context(), c.Param("id"), uid, application.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaylistView(p), "playlist updated", nil)
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Playlists.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "playlist deleted", nil)
}

func (h *PlaylistHandler) AddSong(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req addSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Playlists.AddSong(c.Request.Context(), c.Param("id"), uid, application.SongInput{
		SongID:   req.SongID,
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Duration: req.Duration,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaylistView(p), "song added", nil)
}

func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Playlists.RemoveSong(c.Request.Context(), c.Param("id"), uid, c.Param("songID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaylistView(p), "song removed", nil)
}

func (h *PlaylistHandler) Like(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Playlists.Like(c.Request.Context(), c.Param("id"), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"liked": true}, "liked", nil)
}

func (h *PlaylistHandler) Unlike(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Playlists.Unlike(c.Request.Context(), c.Param("id"), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"liked": false}, "unliked", nil)
}

func (h *PlaylistHandler) Comments(c *gin.Context) {
	comments, err := h.Playlists.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, toCommentView(&comments[i]))
	}
	response.Success(c, http.StatusOK, views, "comments", nil)
}

func (h *PlaylistHandler) AddComment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Playlists.AddComment(c.Request.Context(), c.Param("id"), uid, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCommentView(cm), "comment added", nil)
}

func (h *PlaylistHandler) UpdateComment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Playlists.UpdateComment(c.Request.Context(), c.Param("commentID"), uid, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCommentView(cm), "comment updated", nil)
}

func (h *PlaylistHandler) DeleteComment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Playlists.DeleteComment(c.Request.Context(), c.Param("commentID"), uid); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "comment deleted", nil)
}

// Catalog lists the shared song catalog.
func (h *PlaylistHandler) Catalog(c *gin.Context) {
	songs, err := h.Playlists.Store.ListSongs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]SongView, 0, len(songs))
	for _, s := range songs {
		views = append(views, toSongView(s))
	}
	response.Success(c, http.StatusOK, views, "songs", nil)
}
