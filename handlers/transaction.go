package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cadizmarco/MoneyTracker/middleware"
	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/gin-gonic/gin"
)

// TransactionService is what the handler needs from the service layer;
// tests substitute a mock.
type TransactionService interface {
	List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	Create(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error)
	Update(ctx context.Context, userID, id string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
}

type TransactionHandler struct {
	Service TransactionService
	WS      *WSHandler
}

func (h *TransactionHandler) broadcast(userID, event string) {
	if h.WS != nil {
		h.WS.BroadcastUpdate(userID, event)
	}
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter := models.TransactionFilter{
		AccountID: c.Query("account_id"),
		Category:  c.Query("category"),
		Type:      c.Query("type"),
	}
	if v := c.Query("start_date"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "invalid start_date")
			return
		}
		filter.StartDate = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "invalid end_date")
			return
		}
		filter.EndDate = t
	}

	transactions, err := h.Service.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondServiceError(c, err, "Transaction not found")
		return
	}
	utils.RespondOK(c, http.StatusOK, transactions)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)

	transaction, err := h.Service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Transaction not found")
		return
	}
	utils.RespondOK(c, http.StatusOK, transaction)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Account not found")
		return
	}

	h.broadcast(userID, "transaction_created")
	utils.RespondOK(c, http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction, err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Transaction not found")
		return
	}

	h.broadcast(userID, "transaction_updated")
	utils.RespondOK(c, http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "Transaction not found")
		return
	}

	h.broadcast(userID, "transaction_deleted")
	utils.RespondMessage(c, http.StatusOK, "Transaction deleted")
}

// ExportTransactions streams the caller's transactions as a CSV download.
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	transactions, err := h.Service.List(c.Request.Context(), userID, models.TransactionFilter{})
	if err != nil {
		respondServiceError(c, err, "Transaction not found")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"date", "type", "category", "amount", "account", "description", "tags"})
	for _, t := range transactions {
		writer.Write([]string{
			t.Date.Format(time.RFC3339),
			t.Type,
			t.Category,
			t.Amount.StringFixed(2),
			t.AccountName,
			t.Description,
			strings.Join(t.Tags, ";"),
		})
	}
}
