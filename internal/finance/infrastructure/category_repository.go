package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
	financeErrors "github.com/perci-aceron/expensetracker-backend/internal/finance/errors"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindOrCreate resolves a category by (user, name, type), creating it when
// absent. The unique constraint makes concurrent resolution of the same key
// converge on a single row instead of racing into duplicates.
func (r *CategoryRepository) FindOrCreate(userID, name, categoryType string) (*domain.Category, error) {
	category := domain.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}

	_, err := r.db.Exec(
		`INSERT INTO categories (id, user_id, name, type)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (user_id, name, type) DO NOTHING`,
		category.ID, category.UserID, category.Name, category.Type,
	)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(
		`SELECT id FROM categories WHERE user_id = $1 AND name = $2 AND type = $3`,
		userID, name, categoryType,
	).Scan(&category.ID)
	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *CategoryRepository) FindByUser(userID string) ([]domain.Category, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, name, type FROM categories WHERE user_id = $1 ORDER BY name`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Type); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByIDAndUser(id, userID string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.QueryRow(
		`SELECT id, user_id, name, type FROM categories WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Rename(id, userID, name string) error {
	res, err := r.db.Exec(
		`UPDATE categories SET name = $1 WHERE id = $2 AND user_id = $3`, name, id, userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(id, userID string) error {
	res, err := r.db.Exec(
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}
