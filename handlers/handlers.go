package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/cadizmarco/MoneyTracker/services"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates a service error into the response envelope.
// NotFound deliberately covers entities owned by other users, so callers
// cannot probe across tenants.
func respondServiceError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrDuplicateBudget):
		utils.RespondError(c, http.StatusConflict, services.ErrDuplicateBudget.Error())
	case services.IsValidation(err):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// parseDateParam accepts RFC3339 or a bare calendar date.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
