package infrastructure

import (
	"database/sql"
	"errors"
	"log"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func totalColumn(transactionType string) string {
	if transactionType == domain.TypeIncomes {
		return "total_incomes"
	}
	return "total_expenses"
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Printf("Error during transaction rollback: %v", err)
	}
}

// addToTotal applies the aggregate delta as a single atomic increment keyed
// by user id. No read-modify-write, so concurrent mutations cannot lose
// updates.
func addToTotal(tx *sql.Tx, userID, transactionType string, delta float64) error {
	query := `UPDATE users SET ` + totalColumn(transactionType) + ` = ` + totalColumn(transactionType) + ` + $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.Exec(query, delta, userID)
	return err
}

func (r *TransactionRepository) CreateWithTotal(t domain.Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer safeRollback(tx)

	_, err = tx.Exec(
		`INSERT INTO transactions (id, user_id, type, date, time, category_id, sum, comment)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, t.Type, t.Date, t.Time, t.CategoryID, t.Sum, t.Comment,
	)
	if err != nil {
		return err
	}

	if err := addToTotal(tx, t.UserID, t.Type, t.Sum); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *TransactionRepository) UpdateWithTotal(t domain.Transaction, delta float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer safeRollback(tx)

	res, err := tx.Exec(
		`UPDATE transactions
         SET date = $1, time = $2, category_id = $3, sum = $4, comment = $5, updated_at = NOW()
         WHERE id = $6 AND user_id = $7 AND type = $8`,
		t.Date, t.Time, t.CategoryID, t.Sum, t.Comment, t.ID, t.UserID, t.Type,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrTransactionNotFound
	}

	if delta != 0 {
		if err := addToTotal(tx, t.UserID, t.Type, delta); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TransactionRepository) DeleteWithTotal(t domain.Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer safeRollback(tx)

	res, err := tx.Exec(
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2 AND type = $3`,
		t.ID, t.UserID, t.Type,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrTransactionNotFound
	}

	if err := addToTotal(tx, t.UserID, t.Type, -t.Sum); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *TransactionRepository) FindByIDUserAndType(id, userID, transactionType string) (*domain.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.date, t.time, t.category_id, c.name, c.type, t.sum, COALESCE(t.comment, ''), t.created_at, t.updated_at
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.user_id = $2 AND t.type = $3
	`
	var t domain.Transaction
	err := r.db.QueryRow(query, id, userID, transactionType).Scan(
		&t.ID, &t.UserID, &t.Type, &t.Date, &t.Time, &t.CategoryID, &t.CategoryName, &t.CategoryType,
		&t.Sum, &t.Comment, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) FindByTypeAndDate(userID, transactionType, date string) ([]domain.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.date, t.time, t.category_id, c.name, c.type, t.sum, COALESCE(t.comment, ''), t.created_at, t.updated_at
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = $2
	`
	args := []interface{}{userID, transactionType}
	if date != "" {
		query += " AND t.date = $3"
		args = append(args, date)
	}
	query += " ORDER BY t.date, t.time"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Date, &t.Time, &t.CategoryID, &t.CategoryName, &t.CategoryType,
			&t.Sum, &t.Comment, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetTotals(userID string) (domain.TransactionsTotal, error) {
	var total domain.TransactionsTotal
	err := r.db.QueryRow(
		`SELECT total_incomes, total_expenses FROM users WHERE id = $1`, userID,
	).Scan(&total.Incomes, &total.Expenses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return total, financeErrors.ErrUserNotFound
		}
		return total, err
	}
	return total, nil
}

// RecomputeAllTotals repairs cached totals that drifted from the ground-truth
// sums and reports how many users were fixed.
func (r *TransactionRepository) RecomputeAllTotals() (int64, error) {
	res, err := r.db.Exec(`
		UPDATE users u
		SET total_incomes = COALESCE(t.incomes, 0),
		    total_expenses = COALESCE(t.expenses, 0),
		    updated_at = NOW()
		FROM (
		    SELECT u2.id AS user_id,
		           SUM(tr.sum) FILTER (WHERE tr.type = 'incomes') AS incomes,
		           SUM(tr.sum) FILTER (WHERE tr.type = 'expenses') AS expenses
		    FROM users u2
		    LEFT JOIN transactions tr ON tr.user_id = u2.id
		    GROUP BY u2.id
		) t
		WHERE t.user_id = u.id
		  AND (u.total_incomes IS DISTINCT FROM COALESCE(t.incomes, 0)
		       OR u.total_expenses IS DISTINCT FROM COALESCE(t.expenses, 0))
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
