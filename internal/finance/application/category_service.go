package application

import (
	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) ResolveOrCreate(userID, name, categoryType string) (*domain.Category, error) {
	if !domain.IsValidTransactionType(categoryType) {
		return nil, financeErrors.ErrInvalidTransactionType
	}
	if name == "" {
		return nil, financeErrors.NewValidationError("Category name is required")
	}
	return s.repo.FindOrCreate(userID, name, categoryType)
}

func (s *CategoryService) CreateCategory(userID, name, categoryType string) (*domain.Category, error) {
	if name == "" || categoryType == "" {
		return nil, financeErrors.NewValidationError("Both type and categoryName are required")
	}
	return s.ResolveOrCreate(userID, name, categoryType)
}

// GetGroupedCategories derives the user-facing picklist from the normalized
// category rows.
func (s *CategoryService) GetGroupedCategories(userID string) (domain.GroupedCategories, error) {
	grouped := domain.GroupedCategories{
		Incomes:  []domain.Category{},
		Expenses: []domain.Category{},
	}

	categories, err := s.repo.FindByUser(userID)
	if err != nil {
		return grouped, err
	}

	for _, category := range categories {
		if category.Type == domain.TypeIncomes {
			grouped.Incomes = append(grouped.Incomes, category)
		} else {
			grouped.Expenses = append(grouped.Expenses, category)
		}
	}
	return grouped, nil
}

func (s *CategoryService) RenameCategory(userID, id, name string) (*domain.Category, error) {
	if name == "" {
		return nil, financeErrors.NewValidationError("Category name is required")
	}
	if err := s.repo.Rename(id, userID, name); err != nil {
		return nil, err
	}
	return s.repo.FindByIDAndUser(id, userID)
}

func (s *CategoryService) DeleteCategory(userID, id string) error {
	return s.repo.Delete(id, userID)
}
