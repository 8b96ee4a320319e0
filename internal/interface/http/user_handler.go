package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mixfeed/mixfeed/internal/application"
	"github.com/mixfeed/mixfeed/internal/interface/middleware"
	"github.com/mixfeed/mixfeed/pkg/response"
)

// UserHandler serves public profiles and the follow graph. Follow routes are
// addressed by username, matching the client's URL scheme.
type UserHandler struct {
	Accounts *application.AccountService
	Social   *application.SocialService
	Logger   *logrus.Logger
}

func NewUserHandler(accounts *application.AccountService, social *application.SocialService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Accounts: accounts, Social: social, Logger: logger}
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	u, err := h.Accounts.ProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "user", nil)
}

func (h *UserHandler) Follow(c *gin.Context) {
	h.setFollow(c, true)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	h.setFollow(c, false)
}

func (h *UserHandler) setFollow(c *gin.Context, follow bool) {
	actorID := c.GetString(middleware.CtxUserIDKey)
	target, err := h.Accounts.ProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	if follow {
		err = h.Social.Follow(c.Request.Context(), actorID, target.ID)
	} else {
		err = h.Social.Unfollow(c.Request.Context(), actorID, target.ID)
	}
	if err != nil {
		fail(c, err)
		return
	}
	u, err := h.Accounts.ProfileByUsername(c.Request.Context(), target.Username)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "followed"
	if !follow {
		msg = "unfollowed"
	}
	response.Success(c, http.StatusOK, toUserView(u), msg, nil)
}

func (h *UserHandler) Followers(c *gin.Context) {
	users, err := h.Social.Followers(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserViews(users), "followers", nil)
}

func (h *UserHandler) Following(c *gin.Context) {
	users, err := h.Social.Following(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserViews(users), "following", nil)
}
