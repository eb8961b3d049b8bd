package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cadizmarco/MoneyTracker/models"
	"github.com/cadizmarco/MoneyTracker/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBudgetRouter(svc BudgetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &BudgetHandler{Service: svc}

	g := r.Group("/", authAs(testUserID))
	g.GET("/budgets", h.GetBudgets)
	g.GET("/budgets/:id", h.GetBudget)
	g.POST("/budgets", h.CreateBudget)
	g.PUT("/budgets/:id", h.UpdateBudget)
	g.DELETE("/budgets/:id", h.DeleteBudget)
	g.PUT("/budgets/:id/spent", h.RecomputeSpent)
	return r
}

func TestCreateBudget_Success(t *testing.T) {
	svc := &mockBudgetService{
		createFn: func(userID string, req models.CreateBudgetRequest) (*models.Budget, error) {
			assert.Equal(t, testUserID, userID)
			return &models.Budget{
				ID: "b-1", UserID: userID, Name: req.Category, Category: req.Category,
				Amount: req.Amount, Period: req.Period, IsActive: true,
			}, nil
		},
	}

	w, env := doJSON(t, newBudgetRouter(svc), http.MethodPost, "/budgets", gin.H{
		"category": "Food",
		"amount":   "200.00",
		"period":   "monthly",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var b models.Budget
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, "Food", b.Name)
}

// A second budget for the same (user, category) answers Conflict.
func TestCreateBudget_DuplicateCategory(t *testing.T) {
	svc := &mockBudgetService{
		createFn: func(string, models.CreateBudgetRequest) (*models.Budget, error) {
			return nil, services.ErrDuplicateBudget
		},
	}

	w, env := doJSON(t, newBudgetRouter(svc), http.MethodPost, "/budgets", gin.H{
		"category": "Food",
		"amount":   "100.00",
		"period":   "monthly",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "already exists")
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	svc := &mockBudgetService{}

	w, env := doJSON(t, newBudgetRouter(svc), http.MethodPost, "/budgets", gin.H{
		"category": "Food",
		"amount":   "100.00",
		"period":   "fortnightly",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestGetBudget_ForeignOwnerIsNotFound(t *testing.T) {
	svc := &mockBudgetService{
		getFn: func(userID, id string) (*models.Budget, error) {
			return nil, services.ErrNotFound
		},
	}

	w, env := doJSON(t, newBudgetRouter(svc), http.MethodGet, "/budgets/b-other", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)
}

func TestRecomputeSpent(t *testing.T) {
	spent := decimal.RequireFromString("230.00")
	calls := 0
	svc := &mockBudgetService{
		recomputeFn: func(userID, id string) (*models.Budget, error) {
			calls++
			return &models.Budget{
				ID: id, UserID: userID, Category: "Food",
				Amount: decimal.RequireFromString("200.00"), Spent: spent,
				Period: models.PeriodMonthly, StartDate: time.Now(), IsActive: true,
			}, nil
		},
	}
	r := newBudgetRouter(svc)

	// Two runs without intervening writes report the same total.
	for i := 0; i < 2; i++ {
		w, env := doJSON(t, r, http.MethodPut, "/budgets/b-1/spent", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var b models.Budget
		require.NoError(t, json.Unmarshal(env.Data, &b))
		assert.True(t, b.Spent.Equal(spent))
	}
	assert.Equal(t, 2, calls)
}

func TestUpdateBudget_NotFound(t *testing.T) {
	svc := &mockBudgetService{
		updateFn: func(string, string, models.UpdateBudgetRequest) (*models.Budget, error) {
			return nil, services.ErrNotFound
		},
	}

	w, env := doJSON(t, newBudgetRouter(svc), http.MethodPut, "/budgets/missing", gin.H{
		"amount": "50.00",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}
