package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mixfeed/mixfeed/internal/container"
	handlers "github.com/mixfeed/mixfeed/internal/interface/http"
	"github.com/mixfeed/mixfeed/internal/interface/middleware"
	"github.com/mixfeed/mixfeed/pkg/helpers"
)

type SearchModule struct {
	Handler *handlers.SearchHandler
	JWT     *helpers.JWTManager
}

func NewSearchModule(h *handlers.SearchHandler, jwt *helpers.JWTManager) *SearchModule {
	return &SearchModule{Handler: h, JWT: jwt}
}

func (m *SearchModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/search", m.Handler.Search)
		auth.GET("/search/users/suggest", m.Handler.Suggest)
	}
}
