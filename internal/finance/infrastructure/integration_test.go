package infrastructure

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	database "github.com/perci-aceron/expensetracker-backend/internal/db"
	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
)

// startPostgres starts a throwaway database and runs the migrations against
// it. Set RUN_INTEGRATION_TESTS=1 to enable; these tests need a Docker daemon.
func startPostgres(t *testing.T) *database.DBService {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set RUN_INTEGRATION_TESTS=1 to run integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("expensetracker_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbService, err := database.NewDBService(connStr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbService.Close()
	})

	return dbService
}

func insertUser(t *testing.T, dbService *database.DBService) string {
	t.Helper()
	userID := uuid.NewString()
	_, err := dbService.DB.Exec(`
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, 'Test User', $2, 'hash', NOW(), NOW())
	`, userID, userID+"@example.com")
	require.NoError(t, err)
	return userID
}

func TestTransactionRepository_TotalsStayConsistent(t *testing.T) {
	dbService := startPostgres(t)
	userID := insertUser(t, dbService)

	categories := NewCategoryRepository(dbService.DB)
	transactions := NewTransactionRepository(dbService.DB)

	category, err := categories.FindOrCreate(userID, "Salary", domain.TypeIncomes)
	require.NoError(t, err)

	transaction := domain.Transaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       domain.TypeIncomes,
		Date:       "2024-05-10",
		Time:       "14:30",
		CategoryID: category.ID,
		Sum:        1000,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, transactions.CreateWithTotal(transaction))

	totals, err := transactions.GetTotals(userID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, totals.Incomes)
	assert.Equal(t, 0.0, totals.Expenses)

	transaction.Sum = 1500
	require.NoError(t, transactions.UpdateWithTotal(transaction, 500))

	totals, err = transactions.GetTotals(userID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, totals.Incomes)

	found, err := transactions.FindByIDUserAndType(transaction.ID, userID, domain.TypeIncomes)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, found.Sum)
	assert.Equal(t, "Salary", found.CategoryName)
	assert.Equal(t, domain.TypeIncomes, found.CategoryType)

	require.NoError(t, transactions.DeleteWithTotal(*found))

	totals, err = transactions.GetTotals(userID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, totals.Incomes)
}

func TestTransactionRepository_ListFiltersByDate(t *testing.T) {
	dbService := startPostgres(t)
	userID := insertUser(t, dbService)

	categories := NewCategoryRepository(dbService.DB)
	transactions := NewTransactionRepository(dbService.DB)

	category, err := categories.FindOrCreate(userID, "Groceries", domain.TypeExpenses)
	require.NoError(t, err)

	for _, date := range []string{"2024-05-09", "2024-05-10", "2024-05-10"} {
		require.NoError(t, transactions.CreateWithTotal(domain.Transaction{
			ID:         uuid.NewString(),
			UserID:     userID,
			Type:       domain.TypeExpenses,
			Date:       date,
			Time:       "12:00",
			CategoryID: category.ID,
			Sum:        10,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}))
	}

	filtered, err := transactions.FindByTypeAndDate(userID, domain.TypeExpenses, "2024-05-10")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	all, err := transactions.FindByTypeAndDate(userID, domain.TypeExpenses, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecomputeAllTotals_RepairsDrift(t *testing.T) {
	dbService := startPostgres(t)
	userID := insertUser(t, dbService)

	categories := NewCategoryRepository(dbService.DB)
	transactions := NewTransactionRepository(dbService.DB)

	category, err := categories.FindOrCreate(userID, "Rent", domain.TypeExpenses)
	require.NoError(t, err)

	require.NoError(t, transactions.CreateWithTotal(domain.Transaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       domain.TypeExpenses,
		Date:       "2024-05-01",
		Time:       "09:00",
		CategoryID: category.ID,
		Sum:        800,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))

	// corrupt the cached aggregate behind the repository's back
	_, err = dbService.DB.Exec(`UPDATE users SET total_expenses = 123 WHERE id = $1`, userID)
	require.NoError(t, err)

	repaired, err := transactions.RecomputeAllTotals()
	require.NoError(t, err)
	assert.Equal(t, int64(1), repaired)

	totals, err := transactions.GetTotals(userID)
	require.NoError(t, err)
	assert.Equal(t, 800.0, totals.Expenses)

	repaired, err = transactions.RecomputeAllTotals()
	require.NoError(t, err)
	assert.Equal(t, int64(0), repaired)
}

func TestCategoryRepository_UniquePerUserNameType(t *testing.T) {
	dbService := startPostgres(t)
	userID := insertUser(t, dbService)

	categories := NewCategoryRepository(dbService.DB)

	first, err := categories.FindOrCreate(userID, "Other", domain.TypeExpenses)
	require.NoError(t, err)

	second, err := categories.FindOrCreate(userID, "Other", domain.TypeExpenses)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	income, err := categories.FindOrCreate(userID, "Other", domain.TypeIncomes)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, income.ID)

	all, err := categories.FindByUser(userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
