package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

const accountColumns = `id, user_id, name, class, balance, currency, statement_balance, due_date, default_category_id, pinned, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	acc := &models.Account{}
	err := row.Scan(
		&acc.ID,
		&acc.UserID,
		&acc.Name,
		&acc.Class,
		&acc.Balance,
		&acc.Currency,
		&acc.StatementBalance,
		&acc.DueDate,
		&acc.DefaultCategoryID,
		&acc.Pinned,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func CreateAccount(ctx context.Context, pool *pgxpool.Pool, acc *models.Account) error {
	if !models.ValidAccountClass(acc.Class) {
		return models.NewValidation("недопустимый класс счета: %q", acc.Class)
	}
	if err := models.ValidateCurrency(acc.Currency); err != nil {
		return err
	}
	// Выписка и дата платежа имеют смысл только для задолженностей
	if acc.Class != models.AccountLiability && (acc.StatementBalance != nil || acc.DueDate != nil) {
		return models.NewValidation("баланс выписки и дата платежа допустимы только для счета класса liability")
	}

	query := `
		INSERT INTO accounts (user_id, name, class, balance, currency, statement_balance, due_date, default_category_id, pinned)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $7, $8)
		RETURNING id, balance, created_at`

	err := pool.QueryRow(ctx, query,
		acc.UserID,
		acc.Name,
		acc.Class,
		acc.Currency,
		acc.StatementBalance,
		acc.DueDate,
		acc.DefaultCategoryID,
		acc.Pinned).Scan(&acc.ID, &acc.Balance, &acc.CreatedAt)
	if err != nil {
		return models.NewStorage(err, "ошибка при добавлении счета")
	}
	return nil
}

func GetAccountByID(ctx context.Context, pool *pgxpool.Pool, accountID, userID int) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`

	acc, err := scanAccount(pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("счет с ID %d не найден", accountID)
		}
		return nil, models.NewStorage(err, "ошибка при получении счета")
	}
	return acc, nil
}

// GetAllAccounts возвращает счета пользователя, закрепленные первыми.
func GetAllAccounts(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY pinned DESC, id`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении счетов")
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, models.NewStorage(err, "ошибка чтения счета")
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// UpdateAccount меняет метаданные счета. Баланс отсюда не трогается:
// он меняется только проводками внутри атомарной единицы.
func UpdateAccount(ctx context.Context, pool *pgxpool.Pool, acc *models.Account) error {
	if err := models.ValidateCurrency(acc.Currency); err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET name = $1, currency = $2, statement_balance = $3, due_date = $4, default_category_id = $5, pinned = $6
		WHERE id = $7 AND user_id = $8`

	result, err := pool.Exec(ctx, query,
		acc.Name,
		acc.Currency,
		acc.StatementBalance,
		acc.DueDate,
		acc.DefaultCategoryID,
		acc.Pinned,
		acc.ID,
		acc.UserID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления счета")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("счет с ID %d не найден", acc.ID)
	}
	return nil
}

// DeleteAccount удаляет счет без зависимых строк. Счет с проводками
// или привязанный к цели удалить нельзя.
func DeleteAccount(ctx context.Context, pool *pgxpool.Pool, accountID, userID int) error {
	var hasEntries, hasGoal bool
	err := pool.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM entries WHERE account_id = $1),
			EXISTS (SELECT 1 FROM goals WHERE account_id = $1)`,
		accountID).Scan(&hasEntries, &hasGoal)
	if err != nil {
		return models.NewStorage(err, "ошибка проверки зависимостей счета")
	}
	if hasGoal {
		return models.NewInvalidState("счет с ID %d привязан к цели и не может быть удален напрямую", accountID)
	}
	if hasEntries {
		return models.NewInvalidState("счет с ID %d имеет проводки и не может быть удален", accountID)
	}

	result, err := pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return models.NewStorage(err, "ошибка удаления счета")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("счет с ID %d не найден", accountID)
	}
	return nil
}

// lockAccountTx читает счет пользователя с блокировкой строки. Все
// изменения балансов конкурентных проводок сериализуются через нее.
func lockAccountTx(ctx context.Context, tx pgx.Tx, accountID, userID int) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`

	acc, err := scanAccount(tx.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("счет с ID %d не найден", accountID)
		}
		return nil, models.NewStorage(err, "ошибка при получении счета")
	}
	return acc, nil
}

// applyDeltaTx прибавляет знаковый эффект к балансу счета.
func applyDeltaTx(ctx context.Context, tx pgx.Tx, accountID int, delta int64) error {
	_, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2`, delta, accountID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления баланса счета %d", accountID)
	}
	return nil
}
