package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mixfeed/mixfeed/internal/container"
	handlers "github.com/mixfeed/mixfeed/internal/interface/http"
	"github.com/mixfeed/mixfeed/internal/interface/middleware"
	"github.com/mixfeed/mixfeed/pkg/helpers"
)

// UserModule wires the profile and follow-graph routes. Everything is
// bearer-protected; the client addresses other users by username.
type UserModule struct {
	Accounts *handlers.AccountHandler
	Users    *handlers.UserHandler
	JWT      *helpers.JWTManager
}

func NewUserModule(accounts *handlers.AccountHandler, users *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Accounts: accounts, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/me", m.Accounts.Me)
		auth.PUT("/users/me", m.Accounts.UpdateMe)
		auth.PUT("/users/me/avatar", m.Accounts.UploadAvatar)

		auth.GET("/users/:username", m.Users.GetByUsername)
		auth.POST("/users/:username/follow", m.Users.Follow)
		auth.DELETE("/users/:username/follow", m.Users.Unfollow)
		auth.GET("/users/:username/followers", m.Users.Followers)
		auth.GET("/users/:username/following", m.Users.Following)
	}
}
