package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) error {
	if category.Class != nil && *category.Class != models.AccountExpense && *category.Class != models.AccountRevenue {
		return models.NewValidation("класс категории может быть только expense или revenue, получен %q", *category.Class)
	}

	query := `
		INSERT INTO categories (user_id, name, class)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := pool.QueryRow(ctx, query, category.UserID, category.Name, category.Class).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return models.NewStorage(err, "ошибка при добавлении категории")
	}
	return nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, categoryID, userID int) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, class, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2`

	category := &models.Category{}
	err := pool.QueryRow(ctx, query, categoryID, userID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Class,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("категория с ID %d не найдена", categoryID)
		}
		return nil, models.NewStorage(err, "ошибка при получении категории")
	}
	return category, nil
}

func GetAllCategories(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	query := `SELECT id, user_id, name, class, created_at FROM categories WHERE user_id = $1 ORDER BY id`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении категорий")
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Class, &category.CreatedAt); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения категории")
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, class = $2
		WHERE id = $3 AND user_id = $4`

	result, err := pool.Exec(ctx, query, category.Name, category.Class, category.ID, category.UserID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления категории")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("категория с ID %d не найдена", category.ID)
	}
	return nil
}

// DeleteCategory удаляет категорию без зависимых строк.
func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, categoryID, userID int) error {
	var inUse bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = $1)
			OR EXISTS (SELECT 1 FROM budgets WHERE category_id = $1)
			OR EXISTS (SELECT 1 FROM recurring_rules WHERE category_id = $1)
			OR EXISTS (SELECT 1 FROM accounts WHERE default_category_id = $1)
			OR EXISTS (SELECT 1 FROM shortcuts WHERE category_id = $1)`,
		categoryID).Scan(&inUse)
	if err != nil {
		return models.NewStorage(err, "ошибка проверки зависимостей категории")
	}
	if inUse {
		return models.NewInvalidState("категория с ID %d используется и не может быть удалена", categoryID)
	}

	result, err := pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return models.NewStorage(err, "ошибка при удалении категории")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("категория с ID %d не найдена", categoryID)
	}
	return nil
}
