package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/response"
	"github.com/stemsi/kelas-backend/internal/service"
)

// failWith maps a service error onto the response envelope. Unexpected
// errors are attached to the context for the request logger and answered with 500.
func failWith(c *gin.Context, err error) {
	var ve *service.ValidationError
	var ce *service.ConflictError

	switch {
	case errors.As(err, &ve):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
	case errors.As(err, &ce):
		response.FailWithFields(c, http.StatusConflict, response.ErrDuplicateUser, map[string]string{ce.Field: ce.Error()})
	case errors.Is(err, service.ErrConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramID parses a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// viewer describes the caller for pages that render differently for
// anonymous visitors, students and admins.
func viewer(c *gin.Context) gin.H {
	identity := middleware.GetIdentity(c)
	return gin.H{
		"authenticated": identity.IsAuthenticated(),
		"is_admin":      identity.IsAdmin(),
		"user":          identity.CurrentUser(),
	}
}
