package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mixfeed/mixfeed/internal/application"
	"github.com/mixfeed/mixfeed/pkg/response"
)

type SearchHandler struct {
	Svc    *application.SearchService
	Logger *logrus.Logger
}

func NewSearchHandler(svc *application.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Svc: svc, Logger: logger}
}

type searchResultView struct {
	Users     []UserView     `json:"users"`
	Playlists []PlaylistView `json:"playlists"`
	Songs     []SongView     `json:"songs"`
}

func (h *SearchHandler) Search(c *gin.Context) {
	res, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	view := searchResultView{
		Users:     toUserViews(res.Users),
		Playlists: toPlaylistViews(res.Playlists),
		Songs:     make([]SongView, 0, len(res.Songs)),
	}
	for _, s := range res.Songs {
		view.Songs = append(view.Songs, toSongView(s))
	}
	response.Success(c, http.StatusOK, view, "search results", nil)
}

// Suggest serves typeahead user suggestions from the search index.
func (h *SearchHandler) Suggest(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SuggestUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.Logger.WithError(err).Warn("user suggestion query failed")
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "suggestions", nil)
}
