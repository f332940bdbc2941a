package domain

import (
	"math"
	"time"

	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

const (
	TypeIncomes  = "incomes"
	TypeExpenses = "expenses"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func IsValidTransactionType(transactionType string) bool {
	return transactionType == TypeIncomes || transactionType == TypeExpenses
}

type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	CategoryType string    `json:"categoryType,omitempty"`
	Sum          float64   `json:"sum"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (t *Transaction) Validate() error {
	if !IsValidTransactionType(t.Type) {
		return financeErrors.ErrInvalidTransactionType
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return financeErrors.NewValidationError("Date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(TimeLayout, t.Time); err != nil {
		return financeErrors.NewValidationError("Time must be in HH:MM format")
	}
	if len(t.Comment) > 200 {
		return financeErrors.NewValidationError("Comment must be of length less than 200")
	}
	return nil
}

func (t *Transaction) RoundToTwoDecimalPlaces() {
	t.Sum = math.Round(t.Sum*100) / 100
}

// TransactionPatch carries a partial update. Nil means the field was not
// supplied, so an explicit zero sum is distinguishable from an omitted one.
type TransactionPatch struct {
	Date     *string  `json:"date"`
	Time     *string  `json:"time"`
	Category *string  `json:"category"`
	Sum      *float64 `json:"sum"`
	Comment  *string  `json:"comment"`
}

// TransactionRepository persists transactions and the per-user cached totals.
// The WithTotal methods apply the record write and the aggregate delta as one
// atomic unit so the cached total cannot drift from the record set under
// partial failure or concurrent requests.
type TransactionRepository interface {
	CreateWithTotal(t Transaction) error
	UpdateWithTotal(t Transaction, delta float64) error
	DeleteWithTotal(t Transaction) error
	FindByIDUserAndType(id, userID, transactionType string) (*Transaction, error)
	FindByTypeAndDate(userID, transactionType, date string) ([]Transaction, error)
	GetTotals(userID string) (TransactionsTotal, error)
	RecomputeAllTotals() (int64, error)
}
