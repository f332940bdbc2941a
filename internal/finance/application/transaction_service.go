package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type CategoryResolverInterface interface {
	ResolveOrCreate(userID, name, categoryType string) (*domain.Category, error)
}

// TransactionService owns the transaction records and keeps the cached
// per-user totals in step with them. Every mutation pairs its record write
// with the matching aggregate delta through the repository's atomic WithTotal
// operations.
type TransactionService struct {
	repo            domain.TransactionRepository
	categoryService CategoryResolverInterface
	now             func() time.Time
}

func NewTransactionService(repo domain.TransactionRepository, categoryService CategoryResolverInterface) *TransactionService {
	return &TransactionService{
		repo:            repo,
		categoryService: categoryService,
		now:             time.Now,
	}
}

// CreateTransaction stamps the current date and time, resolves the category
// by (name, type) and persists the record together with a total[type] += sum
// adjustment. Sum is a pointer so a missing field is detectable; an explicit
// zero is accepted.
func (s *TransactionService) CreateTransaction(userID, transactionType, categoryName string, sum *float64, comment string) (*domain.Transaction, error) {
	if !domain.IsValidTransactionType(transactionType) {
		return nil, financeErrors.ErrInvalidTransactionType
	}
	if sum == nil || categoryName == "" {
		return nil, financeErrors.NewValidationError("Type, sum, and categoryName are required")
	}

	category, err := s.categoryService.ResolveOrCreate(userID, categoryName, transactionType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transaction := domain.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         transactionType,
		Date:         now.Format(domain.DateLayout),
		Time:         now.Format(domain.TimeLayout),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CategoryType: category.Type,
		Sum:          *sum,
		Comment:      comment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateWithTotal(transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (s *TransactionService) GetTransactionsByTypeAndDate(userID, transactionType, date string) ([]domain.Transaction, error) {
	if !domain.IsValidTransactionType(transactionType) {
		return nil, financeErrors.ErrInvalidTransactionType
	}

	transactions, err := s.repo.FindByTypeAndDate(userID, transactionType, date)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

// UpdateTransaction applies a partial update. Only fields present in the
// patch change; a supplied sum adjusts the total by exactly (new - old), and
// an untouched or identical sum leaves the aggregate alone.
func (s *TransactionService) UpdateTransaction(userID, transactionType, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if !domain.IsValidTransactionType(transactionType) {
		return nil, financeErrors.ErrInvalidTransactionType
	}

	existing, err := s.repo.FindByIDUserAndType(id, userID, transactionType)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Time != nil {
		updated.Time = *patch.Time
	}
	if patch.Comment != nil {
		updated.Comment = *patch.Comment
	}
	if patch.Category != nil {
		category, err := s.categoryService.ResolveOrCreate(userID, *patch.Category, transactionType)
		if err != nil {
			return nil, err
		}
		updated.CategoryID = category.ID
		updated.CategoryName = category.Name
		updated.CategoryType = category.Type
	}

	var delta float64
	if patch.Sum != nil {
		updated.Sum = *patch.Sum
		updated.RoundToTwoDecimalPlaces()
		delta = updated.Sum - existing.Sum
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.UpdatedAt = s.now()
	if err := s.repo.UpdateWithTotal(updated, delta); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteTransaction removes the record and compensates the total with the
// pre-deletion sum. The removed record is returned to the caller.
func (s *TransactionService) DeleteTransaction(userID, transactionType, id string) (*domain.Transaction, error) {
	if !domain.IsValidTransactionType(transactionType) {
		return nil, financeErrors.ErrInvalidTransactionType
	}

	existing, err := s.repo.FindByIDUserAndType(id, userID, transactionType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteWithTotal(*existing); err != nil {
		return nil, err
	}

	return existing, nil
}
