package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountRouter(svc AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &AccountHandler{Service: svc}

	g := r.Group("/", authAs(testUserID))
	g.GET("/accounts", h.GetAccounts)
	g.GET("/accounts/:id", h.GetAccount)
	g.POST("/accounts", h.CreateAccount)
	g.PUT("/accounts/:id", h.UpdateAccount)
	g.DELETE("/accounts/:id", h.DeleteAccount)
	return r
}

func TestCreateAccount_Success(t *testing.T) {
	svc := &mockAccountService{
		createFn: func(userID string, req models.CreateAccountRequest) (*models.Account, error) {
			assert.Equal(t, testUserID, userID)
			balance := decimal.Zero
			if req.Balance != nil {
				balance = *req.Balance
			}
			return &models.Account{
				ID: "a-1", UserID: userID, Name: req.Name, Type: req.Type,
				Balance: balance, Currency: "USD", IsActive: true,
			}, nil
		},
	}

	w, env := doJSON(t, newAccountRouter(svc), http.MethodPost, "/accounts", gin.H{
		"name":    "Wallet",
		"type":    "cash",
		"balance": "100.00",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var a models.Account
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestCreateAccount_UnknownType(t *testing.T) {
	svc := &mockAccountService{}

	w, env := doJSON(t, newAccountRouter(svc), http.MethodPost, "/accounts", gin.H{
		"name": "Wallet",
		"type": "piggybank",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestDeleteAccount_ForeignOwnerIsNotFound(t *testing.T) {
	svc := &mockAccountService{
		deleteFn: func(userID, id string) error {
			return services.ErrNotFound
		},
	}

	w, env := doJSON(t, newAccountRouter(svc), http.MethodDelete, "/accounts/a-other", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}
