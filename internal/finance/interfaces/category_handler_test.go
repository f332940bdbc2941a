package interfaces

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type MockCategoryService struct {
	CreateFunc  func(userID, name, categoryType string) (*domain.Category, error)
	GroupedFunc func(userID string) (domain.GroupedCategories, error)
	RenameFunc  func(userID, id, name string) (*domain.Category, error)
	DeleteFunc  func(userID, id string) error
}

func (m *MockCategoryService) CreateCategory(userID, name, categoryType string) (*domain.Category, error) {
	return m.CreateFunc(userID, name, categoryType)
}

func (m *MockCategoryService) GetGroupedCategories(userID string) (domain.GroupedCategories, error) {
	return m.GroupedFunc(userID)
}

func (m *MockCategoryService) RenameCategory(userID, id, name string) (*domain.Category, error) {
	return m.RenameFunc(userID, id, name)
}

func (m *MockCategoryService) DeleteCategory(userID, id string) error {
	return m.DeleteFunc(userID, id)
}

func TestCreateCategory_Success(t *testing.T) {
	service := &MockCategoryService{
		CreateFunc: func(userID, name, categoryType string) (*domain.Category, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "Groceries", name)
			assert.Equal(t, "expenses", categoryType)
			return &domain.Category{ID: "c1", UserID: userID, Name: name, Type: categoryType}, nil
		},
	}
	handler := NewCategoryHandler(service, respondJSON, respondError)

	body, _ := json.Marshal(map[string]string{
		"type":         "expenses",
		"categoryName": "Groceries",
	})
	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBuffer(body)), "user-1")
	w := httptest.NewRecorder()

	handler.CreateCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Status string          `json:"status"`
		Data   domain.Category `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, "Groceries", response.Data.Name)
}

func TestCreateCategory_MissingFields(t *testing.T) {
	service := &MockCategoryService{
		CreateFunc: func(userID, name, categoryType string) (*domain.Category, error) {
			return nil, financeErrors.NewValidationError("Both type and categoryName are required")
		},
	}
	handler := NewCategoryHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{}`)), "user-1")
	w := httptest.NewRecorder()

	handler.CreateCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGetCategories_ReturnsGroupedPicklist(t *testing.T) {
	service := &MockCategoryService{
		GroupedFunc: func(userID string) (domain.GroupedCategories, error) {
			return domain.GroupedCategories{
				Incomes:  []domain.Category{{ID: "c1", Name: "Salary", Type: "incomes"}},
				Expenses: []domain.Category{{ID: "c2", Name: "Groceries", Type: "expenses"}},
			}, nil
		},
	}
	handler := NewCategoryHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/categories", nil), "user-1")
	w := httptest.NewRecorder()

	handler.GetCategories(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Status string                   `json:"status"`
		Data   domain.GroupedCategories `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Len(t, response.Data.Incomes, 1)
	assert.Len(t, response.Data.Expenses, 1)
}

func TestGetCategories_Unauthorized(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{}, respondJSON, respondError)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()

	handler.GetCategories(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestUpdateCategory_NotFound(t *testing.T) {
	service := &MockCategoryService{
		RenameFunc: func(userID, id, name string) (*domain.Category, error) {
			return nil, financeErrors.ErrCategoryNotFound
		},
	}
	handler := NewCategoryHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodPatch, "/api/categories/missing", bytes.NewBufferString(`{"categoryName":"Food"}`)), "user-1")
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.UpdateCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteCategory_NoContent(t *testing.T) {
	service := &MockCategoryService{
		DeleteFunc: func(userID, id string) error {
			assert.Equal(t, "c1", id)
			return nil
		},
	}
	handler := NewCategoryHandler(service, respondJSON, respondError)

	req := withUserID(httptest.NewRequest(http.MethodDelete, "/api/categories/c1", nil), "user-1")
	req.SetPathValue("id", "c1")
	w := httptest.NewRecorder()

	handler.DeleteCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
