package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) error {
	if budget.Amount <= 0 {
		return models.NewValidation("лимит бюджета должен быть строго положительным, получено %d", budget.Amount)
	}
	if _, err := GetCategoryByID(ctx, pool, budget.CategoryID, budget.UserID); err != nil {
		return err
	}

	query := `
		INSERT INTO budgets (user_id, category_id, amount, period)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := pool.QueryRow(ctx, query,
		budget.UserID,
		budget.CategoryID,
		budget.Amount,
		budget.Period).Scan(&budget.ID)
	if err != nil {
		return models.NewStorage(err, "ошибка при добавлении бюджета")
	}
	return nil
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, budgetID, userID int) (*models.Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount, period
		FROM budgets
		WHERE id = $1 AND user_id = $2`

	budget := &models.Budget{}
	err := pool.QueryRow(ctx, query, budgetID, userID).Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&budget.Amount,
		&budget.Period,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("бюджет с ID %d не найден", budgetID)
		}
		return nil, models.NewStorage(err, "ошибка при получении бюджета")
	}
	return budget, nil
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) error {
	if budget.Amount <= 0 {
		return models.NewValidation("лимит бюджета должен быть строго положительным, получено %d", budget.Amount)
	}

	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, period = $3
		WHERE id = $4 AND user_id = $5`

	result, err := pool.Exec(ctx, query,
		budget.CategoryID,
		budget.Amount,
		budget.Period,
		budget.ID,
		budget.UserID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления бюджета")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("бюджет с ID %d не найден", budget.ID)
	}
	return nil
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, budgetID, userID int) error {
	result, err := pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return models.NewStorage(err, "ошибка удаления бюджета")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("бюджет с ID %d не найден", budgetID)
	}
	return nil
}

// GetBudgetSummaries возвращает бюджеты пользователя с потраченной за
// текущий календарный месяц суммой. Потраченное не хранится: оно считается
// по списаниям категории на момент чтения.
func GetBudgetSummaries(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.BudgetSummary, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, b.amount, b.period,
			COALESCE((
				SELECT SUM(t.amount) FROM transactions t
				WHERE t.user_id = b.user_id
				  AND t.category_id = b.category_id
				  AND t.kind = 'withdrawal'
				  AND t.date >= date_trunc('month', now())
				  AND t.date < date_trunc('month', now()) + interval '1 month'
			), 0) AS spent
		FROM budgets b
		WHERE b.user_id = $1
		ORDER BY b.id`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении бюджетов")
	}
	defer rows.Close()

	var summaries []models.BudgetSummary
	for rows.Next() {
		var budget models.Budget
		var spent int64
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.CategoryID, &budget.Amount, &budget.Period, &spent); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения бюджета")
		}
		summaries = append(summaries, budget.Summarize(spent))
	}
	return summaries, rows.Err()
}
