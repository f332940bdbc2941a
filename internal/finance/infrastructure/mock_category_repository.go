package infrastructure

import (
	"github.com/google/uuid"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type MockCategoryRepository struct {
	Categories []domain.Category
}

func (m *MockCategoryRepository) FindOrCreate(userID, name, categoryType string) (*domain.Category, error) {
	for _, existing := range m.Categories {
		if existing.UserID == userID && existing.Name == name && existing.Type == categoryType {
			category := existing
			return &category, nil
		}
	}
	category := domain.Category{ID: uuid.NewString(), UserID: userID, Name: name, Type: categoryType}
	m.Categories = append(m.Categories, category)
	return &category, nil
}

func (m *MockCategoryRepository) FindByUser(userID string) ([]domain.Category, error) {
	var categories []domain.Category
	for _, existing := range m.Categories {
		if existing.UserID == userID {
			categories = append(categories, existing)
		}
	}
	return categories, nil
}

func (m *MockCategoryRepository) FindByIDAndUser(id, userID string) (*domain.Category, error) {
	for _, existing := range m.Categories {
		if existing.ID == id && existing.UserID == userID {
			category := existing
			return &category, nil
		}
	}
	return nil, financeErrors.ErrCategoryNotFound
}

func (m *MockCategoryRepository) Rename(id, userID, name string) error {
	for i, existing := range m.Categories {
		if existing.ID == id && existing.UserID == userID {
			m.Categories[i].Name = name
			return nil
		}
	}
	return financeErrors.ErrCategoryNotFound
}

func (m *MockCategoryRepository) Delete(id, userID string) error {
	for i, existing := range m.Categories {
		if existing.ID == id && existing.UserID == userID {
			m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrCategoryNotFound
}
