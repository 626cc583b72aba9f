package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// ConnectDB открывает пул соединений по переменным из .env.
func ConnectDB(ctx context.Context) (*pgxpool.Pool, error) {
	// Переменные могут прийти и из окружения, .env не обязателен
	_ = godotenv.Load()

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), port, os.Getenv("DB_NAME"))

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка подключения к БД")
	}

	return pool, nil
}

// begin начинает атомарную единицу. Все многострочные мутации движка
// проходят через нее и завершаются commit либо полным откатом.
func begin(ctx context.Context, pool *pgxpool.Pool) (pgx.Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, models.NewStorage(err, "не удалось начать транзакцию БД")
	}
	return tx, nil
}

func commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return models.NewStorage(err, "не удалось зафиксировать транзакцию БД")
	}
	return nil
}
