package handlers

import (
	"context"
	"net/http"

	"github.com/cadizmarco/MoneyTracker/middleware"
	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/gin-gonic/gin"
)

type AccountService interface {
	List(ctx context.Context, userID string) ([]models.Account, error)
	Get(ctx context.Context, userID, id string) (*models.Account, error)
	Create(ctx context.Context, userID string, req models.CreateAccountRequest) (*models.Account, error)
	Update(ctx context.Context, userID, id string, req models.UpdateAccountRequest) (*models.Account, error)
	Delete(ctx context.Context, userID, id string) error
}

type AccountHandler struct {
	Service AccountService
	WS      *WSHandler
}

func (h *AccountHandler) broadcast(userID, event string) {
	if h.WS != nil {
		h.WS.BroadcastUpdate(userID, event)
	}
}

func (h *AccountHandler) GetAccounts(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accounts, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Account not found")
		return
	}
	utils.RespondOK(c, http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	account, err := h.Service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Account not found")
		return
	}
	utils.RespondOK(c, http.StatusOK, account)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Account not found")
		return
	}

	h.broadcast(userID, "account_created")
	utils.RespondOK(c, http.StatusCreated, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Account not found")
		return
	}

	h.broadcast(userID, "account_updated")
	utils.RespondOK(c, http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "Account not found")
		return
	}

	h.broadcast(userID, "account_deleted")
	utils.RespondMessage(c, http.StatusOK, "Account deleted")
}
