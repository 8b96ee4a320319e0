package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mixfeed/mixfeed/internal/application"
	"github.com/mixfeed/mixfeed/internal/domain"
	"github.com/mixfeed/mixfeed/pkg/response"
)

// fail maps the domain error taxonomy onto HTTP statuses and writes the
// error envelope.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		response.Fail(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		response.Fail(c, http.StatusBadRequest, "invalid argument", err.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		response.Fail(c, http.StatusConflict, "invalid operation", err.Error())
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		response.Fail(c, http.StatusInternalServerError, "internal error", nil)
	}
}
