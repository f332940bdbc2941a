package infrastructure

import (
	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

// MockTransactionRepository is an in-memory stand-in for the Postgres
// repository. Each WithTotal method applies the record write and the total
// delta together, or not at all when FailNext is set, matching the
// all-or-nothing behavior of the real implementation.
type MockTransactionRepository struct {
	Transactions []domain.Transaction
	Totals       map[string]domain.TransactionsTotal
	FailNext     error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Totals: map[string]domain.TransactionsTotal{},
	}
}

func (m *MockTransactionRepository) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *MockTransactionRepository) applyDelta(userID, transactionType string, delta float64) {
	total := m.Totals[userID]
	if transactionType == domain.TypeIncomes {
		total.Incomes += delta
	} else {
		total.Expenses += delta
	}
	m.Totals[userID] = total
}

func (m *MockTransactionRepository) CreateWithTotal(t domain.Transaction) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.Transactions = append(m.Transactions, t)
	m.applyDelta(t.UserID, t.Type, t.Sum)
	return nil
}

func (m *MockTransactionRepository) UpdateWithTotal(t domain.Transaction, delta float64) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	for i, existing := range m.Transactions {
		if existing.ID == t.ID && existing.UserID == t.UserID && existing.Type == t.Type {
			m.Transactions[i] = t
			m.applyDelta(t.UserID, t.Type, delta)
			return nil
		}
	}
	return financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) DeleteWithTotal(t domain.Transaction) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	for i, existing := range m.Transactions {
		if existing.ID == t.ID && existing.UserID == t.UserID && existing.Type == t.Type {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			m.applyDelta(t.UserID, t.Type, -t.Sum)
			return nil
		}
	}
	return financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindByIDUserAndType(id, userID, transactionType string) (*domain.Transaction, error) {
	for _, existing := range m.Transactions {
		if existing.ID == id && existing.UserID == userID && existing.Type == transactionType {
			t := existing
			return &t, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindByTypeAndDate(userID, transactionType, date string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for _, existing := range m.Transactions {
		if existing.UserID != userID || existing.Type != transactionType {
			continue
		}
		if date != "" && existing.Date != date {
			continue
		}
		transactions = append(transactions, existing)
	}
	return transactions, nil
}

func (m *MockTransactionRepository) GetTotals(userID string) (domain.TransactionsTotal, error) {
	return m.Totals[userID], nil
}

func (m *MockTransactionRepository) RecomputeAllTotals() (int64, error) {
	truth := map[string]domain.TransactionsTotal{}
	for _, t := range m.Transactions {
		total := truth[t.UserID]
		if t.Type == domain.TypeIncomes {
			total.Incomes += t.Sum
		} else {
			total.Expenses += t.Sum
		}
		truth[t.UserID] = total
	}

	var repaired int64
	for userID, cached := range m.Totals {
		if cached != truth[userID] {
			m.Totals[userID] = truth[userID]
			repaired++
		}
	}
	return repaired, nil
}
