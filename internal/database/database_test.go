package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// testPool подключается к тестовой базе. Если база недоступна,
// интеграционные тесты пропускаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")
	pool, err := database.ConnectDB(context.Background())
	if err != nil {
		t.Skipf("база данных недоступна: %v", err)
	}
	// Пул создается лениво, поэтому проверяем доступность явно.
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Skipf("база данных недоступна: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// newTestUserID выдает уникальный идентификатор, чтобы тесты не
// пересекались по данным.
func newTestUserID() int {
	return int(time.Now().UnixNano() % 2_000_000_000)
}

func createTestAccount(t *testing.T, pool *pgxpool.Pool, userID int, name, class string) *models.Account {
	t.Helper()
	acc := &models.Account{
		UserID:   userID,
		Name:     name,
		Class:    class,
		Currency: "RUB",
	}
	if err := database.CreateAccount(context.Background(), pool, acc); err != nil {
		t.Fatalf("ошибка создания счета %q: %v", name, err)
	}
	return acc
}

func accountBalance(t *testing.T, pool *pgxpool.Pool, accountID, userID int) int64 {
	t.Helper()
	acc, err := database.GetAccountByID(context.Background(), pool, accountID, userID)
	if err != nil {
		t.Fatalf("ошибка получения счета %d: %v", accountID, err)
	}
	return acc.Balance
}
