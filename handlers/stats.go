package handlers

import (
	"context"
	"net/http"

	"github.com/cadizmarco/MoneyTracker/middleware"
	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/gin-gonic/gin"
)

type StatsService interface {
	Overview(ctx context.Context, userID string) (*models.StatsOverview, error)
}

type StatsHandler struct {
	Service StatsService
}

func (h *StatsHandler) GetOverview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	overview, err := h.Service.Overview(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	utils.RespondOK(c, http.StatusOK, overview)
}
