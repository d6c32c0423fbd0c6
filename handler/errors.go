package handler

import (
	"main/model"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Storage
// failures come back 503 so callers know a retry may help.
func respondError(c *gin.Context, err error) {
	switch {
	case model.IsValidation(err):
		utils.BadRequest(c, err.Error())
	case model.IsNotFound(err):
		utils.NotFound(c, err.Error())
	case model.IsInvalidTransition(err):
		utils.Conflict(c, err.Error())
	case model.IsPermissionDenied(err):
		utils.Forbidden(c, err.Error())
	case model.IsStorage(err):
		utils.ServiceUnavailable(c, "storage temporarily unavailable")
	default:
		utils.InternalError(c, err.Error())
	}
}
