package handlers

import (
	"context"
	"net/http"

	"github.com/cadizmarco/MoneyTracker/middleware"
	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/gin-gonic/gin"
)

type BudgetService interface {
	List(ctx context.Context, userID string) ([]models.Budget, error)
	Get(ctx context.Context, userID, id string) (*models.Budget, error)
	Create(ctx context.Context, userID string, req models.CreateBudgetRequest) (*models.Budget, error)
	Update(ctx context.Context, userID, id string, req models.UpdateBudgetRequest) (*models.Budget, error)
	Delete(ctx context.Context, userID, id string) error
	RecomputeSpent(ctx context.Context, userID, id string) (*models.Budget, error)
}

type BudgetHandler struct {
	Service BudgetService
	WS      *WSHandler
}

func (h *BudgetHandler) broadcast(userID, event string) {
	if h.WS != nil {
		h.WS.BroadcastUpdate(userID, event)
	}
}

func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	budgets, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Budget not found")
		return
	}
	utils.RespondOK(c, http.StatusOK, budgets)
}

func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	budget, err := h.Service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Budget not found")
		return
	}
	utils.RespondOK(c, http.StatusOK, budget)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Budget not found")
		return
	}

	h.broadcast(userID, "budget_created")
	utils.RespondOK(c, http.StatusCreated, budget)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Budget not found")
		return
	}

	h.broadcast(userID, "budget_updated")
	utils.RespondOK(c, http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "Budget not found")
		return
	}

	h.broadcast(userID, "budget_deleted")
	utils.RespondMessage(c, http.StatusOK, "Budget deleted")
}

// RecomputeSpent rebuilds the budget's cached spent total from its
// matching expense transactions.
func (h *BudgetHandler) RecomputeSpent(c *gin.Context) {
	userID := middleware.GetUserID(c)

	budget, err := h.Service.RecomputeSpent(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Budget not found")
		return
	}

	h.broadcast(userID, "budget_updated")
	utils.RespondOK(c, http.StatusOK, budget)
}
