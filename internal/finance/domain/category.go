package domain

type Category struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"categoryName"`
	Type   string `json:"type"` // "incomes" or "expenses"
}

// GroupedCategories is the user-facing picklist, derived by query from the
// normalized category rows.
type GroupedCategories struct {
	Incomes  []Category `json:"incomes"`
	Expenses []Category `json:"expenses"`
}

type CategoryRepository interface {
	FindOrCreate(userID, name, categoryType string) (*Category, error)
	FindByUser(userID string) ([]Category, error)
	FindByIDAndUser(id, userID string) (*Category, error)
	Rename(id, userID, name string) error
	Delete(id, userID string) error
}
