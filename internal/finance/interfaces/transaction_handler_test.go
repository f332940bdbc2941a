package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type MockTransactionService struct {
	CreateFunc func(userID, transactionType, categoryName string, sum *float64, comment string) (*domain.Transaction, error)
	GetFunc    func(userID, transactionType, date string) ([]domain.Transaction, error)
	UpdateFunc func(userID, transactionType, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	DeleteFunc func(userID, transactionType, id string) (*domain.Transaction, error)
}

func (m *MockTransactionService) CreateTransaction(userID, transactionType, categoryName string, sum *float64, comment string) (*domain.Transaction, error) {
	return m.CreateFunc(userID, transactionType, categoryName, sum, comment)
}

func (m *MockTransactionService) GetTransactionsByTypeAndDate(userID, transactionType, date string) ([]domain.Transaction, error) {
	return m.GetFunc(userID, transactionType, date)
}

func (m *MockTransactionService) UpdateTransaction(userID, transactionType, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	return m.UpdateFunc(userID, transactionType, id, patch)
}

func (m *MockTransactionService) DeleteTransaction(userID, transactionType, id string) (*domain.Transaction, error) {
	return m.DeleteFunc(userID, transactionType, id)
}

func withUserID(req *http.Request, userID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), "userID", userID))
}

func TestCreateTransaction_Success(t *testing.T) {
	service := &MockTransactionService{
		CreateFunc: func(userID, transactionType, categoryName string, sum *float64, comment string) (*domain.Transaction, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "expenses", transactionType)
			assert.Equal(t, "Groceries", categoryName)
			assert.NotNil(t, sum)
			return &domain.Transaction{ID: "t1", UserID: userID, Type: transactionType, Sum: *sum}, nil
		},
	}
	handler := NewTransactionHandler(service, respondJSON, respondError)

	body, _ := json.Marshal(map[string]interface{}{
		"type":         "expenses",
		"categoryName": "Groceries",
		"sum":          42.5,
	})
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBuffer(body)), "user-1")
	w := httptest.NewRecorder()

	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, "Transaction successfully created.", response["message"])
}

func TestCreateTransaction_InvalidType(t *testing.T) {
	service := &MockTransactionService{
		CreateFunc: func(userID, transactionType, categoryName string, sum *float64, comment string) (*domain.Transaction, error) {
			return nil, financeErrors.ErrInvalidTransactionType
		},
	}
	handler := NewTransactionHandler(service, respondJSON, respondError)

	body, _ := json.Marshal(map[string]interface{}{
		"type":         "savings",
		"categoryName": "Groceries",
		"sum":          42.5,
	})
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBuffer(body)), "user-1")
	w := httptest.NewRecorder()

	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, financeErrors.ErrInvalidTransactionType.Error(), response["message"])
	assert.Equal(t, float64(http.StatusBadRequest), response["code"])
}

func TestCreateTransaction_Unauthorized(t *testing.T) {
	handler := NewTransactionHandler(&MockTransactionService{}, respondJSON, respondError)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()

	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCreateTransaction_InvalidBody(t *testing.T) {
	handler := NewTransactionHandler(&MockTransactionService{}, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString("not json")), "user-1")
	w := httptest.NewRecorder()

	handler.CreateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGetTransactionsByTypeAndDate_PassesPathAndQuery(t *testing.T) {
	service := &MockTransactionService{
		GetFunc: func(userID, transactionType, date string) ([]domain.Transaction, error) {
			assert.Equal(t, "incomes", transactionType)
			assert.Equal(t, "2024-05-10", date)
			return []domain.Transaction{{ID: "t1"}, {ID: "t2"}}, nil
		},
	}
	handler := NewTransactionHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/transactions/incomes?date=2024-05-10", nil), "user-1")
	req.SetPathValue("type", "incomes")
	w := httptest.NewRecorder()

	handler.GetTransactionsByTypeAndDate(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Status string               `json:"status"`
		Data   []domain.Transaction `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "success", response.Status)
	assert.Len(t, response.Data, 2)
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	service := &MockTransactionService{
		UpdateFunc: func(userID, transactionType, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
			return nil, financeErrors.ErrTransactionNotFound
		},
	}
	handler := NewTransactionHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodPatch, "/api/transactions/expenses/missing", bytes.NewBufferString(`{"sum": 10}`)), "user-1")
	req.SetPathValue("type", "expenses")
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.UpdateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpdateTransaction_ZeroSumReachesService(t *testing.T) {
	var gotPatch domain.TransactionPatch
	service := &MockTransactionService{
		UpdateFunc: func(userID, transactionType, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
			gotPatch = patch
			return &domain.Transaction{ID: id, Sum: 0}, nil
		},
	}
	handler := NewTransactionHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodPatch, "/api/transactions/expenses/t1", bytes.NewBufferString(`{"sum": 0}`)), "user-1")
	req.SetPathValue("type", "expenses")
	req.SetPathValue("id", "t1")
	w := httptest.NewRecorder()

	handler.UpdateTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotNil(t, gotPatch.Sum)
	assert.Equal(t, 0.0, *gotPatch.Sum)
	assert.Nil(t, gotPatch.Comment)
}

func TestDeleteTransaction_NoContent(t *testing.T) {
	service := &MockTransactionService{
		DeleteFunc: func(userID, transactionType, id string) (*domain.Transaction, error) {
			assert.Equal(t, "t1", id)
			return &domain.Transaction{ID: id}, nil
		},
	}
	handler := NewTransactionHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodDelete, "/api/transactions/incomes/t1", nil), "user-1")
	req.SetPathValue("type", "incomes")
	req.SetPathValue("id", "t1")
	w := httptest.NewRecorder()

	handler.DeleteTransaction(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
