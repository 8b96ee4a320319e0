package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mixfeed/mixfeed/internal/container"
	handlers "github.com/mixfeed/mixfeed/internal/interface/http"
	"github.com/mixfeed/mixfeed/internal/interface/middleware"
	"github.com/mixfeed/mixfeed/pkg/helpers"
)

// PlaylistModule wires playlist CRUD, the follow feed, songs, likes and
// comments, plus the shared song catalog.
type PlaylistModule struct {
	Handler *handlers.PlaylistHandler
	JWT     *helpers.JWTManager
}

func NewPlaylistModule(h *handlers.PlaylistHandler, jwt *helpers.JWTManager) *PlaylistModule {
	return &PlaylistModule{Handler: h, JWT: jwt}
}

func (m *PlaylistModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/playlists/", m.Handler.List)
		auth.GET("/playlists/feed", m.Handler.Feed)
		auth.POST("/playlists/", m.Handler.Create)
		auth.GET("/playlists/:id", m.Handler.Get)
		auth.PUT("/playlists/:id", m.Handler.Update)
		auth.DELETE("/playlists/:id", m.Handler.Delete)

		auth.POST("/playlists/:id/like", m.Handler.Like)
		auth.DELETE("/playlists/:id/like", m.Handler.Unlike)

		auth.GET("/playlists/:id/comments", m.Handler.Comments)
		auth.POST("/playlists/:id/comments", m.Handler.AddComment)
		auth.PUT("/playlists/comments/:commentID", m.Handler.UpdateComment)
		auth.DELETE("/playlists/comments/:commentID", m.Handler.DeleteComment)

		auth.POST("/playlists/:id/songs", m.Handler.AddSong)
		auth.DELETE("/playlists/:id/songs/:songID", m.Handler.RemoveSong)

		auth.GET("/songs", m.Handler.Catalog)
	}
}
