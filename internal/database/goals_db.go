package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, account_id, completed, created_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	goal := &models.Goal{}
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.AccountID,
		&goal.Completed,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// CreateGoal создает цель вместе с ее накопительным счетом класса asset.
// Либо создаются оба, либо ни одного.
func CreateGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.Goal, currency string) error {
	if goal.TargetAmount <= 0 {
		return models.NewValidation("целевая сумма должна быть строго положительной, получено %d", goal.TargetAmount)
	}
	if err := models.ValidateCurrency(currency); err != nil {
		return err
	}

	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var accountID int
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, class, balance, currency)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id`,
		goal.UserID, "Цель: "+goal.Name, models.AccountAsset, currency).Scan(&accountID)
	if err != nil {
		return models.NewStorage(err, "ошибка при создании счета цели")
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO goals (user_id, name, target_amount, current_amount, account_id, completed)
		VALUES ($1, $2, $3, 0, $4, false)
		RETURNING id, current_amount, completed, created_at`,
		goal.UserID, goal.Name, goal.TargetAmount, accountID).
		Scan(&goal.ID, &goal.CurrentAmount, &goal.Completed, &goal.CreatedAt)
	if err != nil {
		return models.NewStorage(err, "ошибка при добавлении цели")
	}
	goal.AccountID = &accountID

	return commit(ctx, tx)
}

func GetGoalByID(ctx context.Context, pool *pgxpool.Pool, goalID, userID int) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	goal, err := scanGoal(pool.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("цель с ID %d не найдена", goalID)
		}
		return nil, models.NewStorage(err, "ошибка при получении цели")
	}
	return goal, nil
}

func GetAllGoals(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY id`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении целей")
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, models.NewStorage(err, "ошибка чтения цели")
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func lockGoalTx(ctx context.Context, tx pgx.Tx, goalID, userID int) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2 FOR UPDATE`

	goal, err := scanGoal(tx.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("цель с ID %d не найдена", goalID)
		}
		return nil, models.NewStorage(err, "ошибка при получении цели")
	}
	return goal, nil
}

// ContributeToGoal переводит сумму с указанного счета на накопительный счет
// цели и увеличивает ее накопленную сумму. Одна атомарная единица, поэтому
// накопленная сумма всегда равна балансу счета цели.
// Возвращает ID созданной транзакции.
func ContributeToGoal(ctx context.Context, pool *pgxpool.Pool, goalID, userID, fromAccountID int, amount int64) (int, error) {
	if amount <= 0 {
		return 0, models.NewValidation("сумма пополнения должна быть строго положительной, получено %d", amount)
	}

	tx, err := begin(ctx, pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	goal, err := lockGoalTx(ctx, tx, goalID, userID)
	if err != nil {
		return 0, err
	}
	if goal.Completed {
		return 0, models.NewInvalidState("цель %q уже закрыта", goal.Name)
	}
	if goal.AccountID == nil {
		return 0, models.NewNotFound("у цели %q нет привязанного счета", goal.Name)
	}

	txnID, err := createTransactionTx(ctx, tx, PostingInput{
		UserID:        userID,
		Date:          time.Now(),
		Description:   "Пополнение цели: " + goal.Name,
		Amount:        amount,
		Kind:          models.KindTransfer,
		FromAccountID: fromAccountID,
		ToAccountID:   *goal.AccountID,
	})
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE goals SET current_amount = current_amount + $1 WHERE id = $2`, amount, goalID)
	if err != nil {
		return 0, models.NewStorage(err, "ошибка обновления накопленной суммы цели")
	}

	if err := commit(ctx, tx); err != nil {
		return 0, err
	}
	return txnID, nil
}

// CompleteGoal выводит всю накопленную сумму на указанный счет, обнуляет
// счет цели и помечает цель закрытой. Повторный вызов по закрытой цели —
// ошибка состояния, а не проводка на ноль.
// Возвращает ID созданной транзакции.
func CompleteGoal(ctx context.Context, pool *pgxpool.Pool, goalID, userID, toAccountID int) (int, error) {
	tx, err := begin(ctx, pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	goal, err := lockGoalTx(ctx, tx, goalID, userID)
	if err != nil {
		return 0, err
	}
	if goal.Completed {
		return 0, models.NewInvalidState("цель %q уже закрыта", goal.Name)
	}
	if goal.AccountID == nil {
		return 0, models.NewNotFound("у цели %q нет привязанного счета", goal.Name)
	}
	if goal.CurrentAmount <= 0 {
		return 0, models.NewInvalidState("по цели %q ничего не накоплено, выводить нечего", goal.Name)
	}

	txnID, err := createTransactionTx(ctx, tx, PostingInput{
		UserID:        userID,
		Date:          time.Now(),
		Description:   "Завершение цели: " + goal.Name,
		Amount:        goal.CurrentAmount,
		Kind:          models.KindTransfer,
		FromAccountID: *goal.AccountID,
		ToAccountID:   toAccountID,
	})
	if err != nil {
		return 0, err
	}

	// Проводка уже свела счет цели к нулю при выполнении инварианта,
	// но ноль фиксируется явно, а не как следствие
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = 0 WHERE id = $1`, *goal.AccountID); err != nil {
		return 0, models.NewStorage(err, "ошибка обнуления счета цели")
	}
	_, err = tx.Exec(ctx,
		`UPDATE goals SET current_amount = 0, completed = true WHERE id = $1`, goalID)
	if err != nil {
		return 0, models.NewStorage(err, "ошибка закрытия цели")
	}

	if err := commit(ctx, tx); err != nil {
		return 0, err
	}
	return txnID, nil
}

// DeleteGoal удаляет цель. Пока на счете цели есть средства, удаление
// запрещено: сначала их нужно вывести. Накопительный счет без проводок
// удаляется вместе с целью, счет с историей остается обычным счетом.
func DeleteGoal(ctx context.Context, pool *pgxpool.Pool, goalID, userID int) error {
	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	goal, err := lockGoalTx(ctx, tx, goalID, userID)
	if err != nil {
		return err
	}
	if !goal.Completed && goal.CurrentAmount != 0 {
		return models.NewInvalidState("по цели %q накоплено %d, сначала выведите средства", goal.Name, goal.CurrentAmount)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM goals WHERE id = $1`, goalID); err != nil {
		return models.NewStorage(err, "ошибка удаления цели")
	}

	if goal.AccountID != nil {
		var hasEntries bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM entries WHERE account_id = $1)`, *goal.AccountID).Scan(&hasEntries)
		if err != nil {
			return models.NewStorage(err, "ошибка проверки проводок счета цели")
		}
		if !hasEntries {
			if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, *goal.AccountID); err != nil {
				return models.NewStorage(err, "ошибка удаления счета цели")
			}
		}
	}

	return commit(ctx, tx)
}
