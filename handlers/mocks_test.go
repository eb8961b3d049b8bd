package handlers

import (
	"context"

	"github.com/cadizmarco/MoneyTracker/models"
)

type mockTransactionService struct {
	listFn   func(userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	getFn    func(userID, id string) (*models.Transaction, error)
	createFn func(userID string, req models.CreateTransactionRequest) (*models.Transaction, error)
	updateFn func(userID, id string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	deleteFn func(userID, id string) error
}

func (m *mockTransactionService) List(_ context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	return m.listFn(userID, filter)
}

func (m *mockTransactionService) Get(_ context.Context, userID, id string) (*models.Transaction, error) {
	return m.getFn(userID, id)
}

func (m *mockTransactionService) Create(_ context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error) {
	return m.createFn(userID, req)
}

func (m *mockTransactionService) Update(_ context.Context, userID, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	return m.updateFn(userID, id, req)
}

func (m *mockTransactionService) Delete(_ context.Context, userID, id string) error {
	return m.deleteFn(userID, id)
}

type mockBudgetService struct {
	listFn      func(userID string) ([]models.Budget, error)
	getFn       func(userID, id string) (*models.Budget, error)
	createFn    func(userID string, req models.CreateBudgetRequest) (*models.Budget, error)
	updateFn    func(userID, id string, req models.UpdateBudgetRequest) (*models.Budget, error)
	deleteFn    func(userID, id string) error
	recomputeFn func(userID, id string) (*models.Budget, error)
}

func (m *mockBudgetService) List(_ context.Context, userID string) ([]models.Budget, error) {
	return m.listFn(userID)
}

func (m *mockBudgetService) Get(_ context.Context, userID, id string) (*models.Budget, error) {
	return m.getFn(userID, id)
}

func (m *mockBudgetService) Create(_ context.Context, userID string, req models.CreateBudgetRequest) (*models.Budget, error) {
	return m.createFn(userID, req)
}

func (m *mockBudgetService) Update(_ context.Context, userID, id string, req models.UpdateBudgetRequest) (*models.Budget, error) {
	return m.updateFn(userID, id, req)
}

func (m *mockBudgetService) Delete(_ context.Context, userID, id string) error {
	return m.deleteFn(userID, id)
}

func (m *mockBudgetService) RecomputeSpent(_ context.Context, userID, id string) (*models.Budget, error) {
	return m.recomputeFn(userID, id)
}

type mockAccountService struct {
	listFn   func(userID string) ([]models.Account, error)
	getFn    func(userID, id string) (*models.Account, error)
	createFn func(userID string, req models.CreateAccountRequest) (*models.Account, error)
	updateFn func(userID, id string, req models.UpdateAccountRequest) (*models.Account, error)
	deleteFn func(userID, id string) error
}

func (m *mockAccountService) List(_ context.Context, userID string) ([]models.Account, error) {
	return m.listFn(userID)
}

func (m *mockAccountService) Get(_ context.Context, userID, id string) (*models.Account, error) {
	return m.getFn(userID, id)
}

func (m *mockAccountService) Create(_ context.Context, userID string, req models.CreateAccountRequest) (*models.Account, error) {
	return m.createFn(userID, req)
}

func (m *mockAccountService) Update(_ context.Context, userID, id string, req models.UpdateAccountRequest) (*models.Account, error) {
	return m.updateFn(userID, id, req)
}

func (m *mockAccountService) Delete(_ context.Context, userID, id string) error {
	return m.deleteFn(userID, id)
}
