package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/ledger"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// ExportBackup читает все сущности пользователя и собирает документ
// выгрузки с версией формата и отметкой времени.
func ExportBackup(ctx context.Context, pool *pgxpool.Pool, userID int) (*models.Backup, error) {
	backup := &models.Backup{
		FormatVersion: models.BackupFormatVersion,
		ExportID:      uuid.New(),
		CreatedAt:     time.Now().UTC(),
	}

	var err error
	if backup.Categories, err = GetAllCategories(ctx, pool, userID); err != nil {
		return nil, err
	}
	if backup.Settings, err = GetUserSettings(ctx, pool, userID); err != nil {
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		backup.Settings = nil // настроек может не быть, это не ошибка выгрузки
	}

	if backup.Accounts, err = exportAccounts(ctx, pool, userID); err != nil {
		return nil, err
	}
	if backup.Transactions, err = exportTransactions(ctx, pool, userID); err != nil {
		return nil, err
	}
	if backup.Entries, err = exportEntries(ctx, pool, userID); err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT id, user_id, category_id, amount, period FROM budgets WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка выгрузки бюджетов")
	}
	defer rows.Close()
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения бюджета")
		}
		backup.Budgets = append(backup.Budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStorage(err, "ошибка выгрузки бюджетов")
	}

	if backup.Goals, err = GetAllGoals(ctx, pool, userID); err != nil {
		return nil, err
	}
	if backup.RecurringRules, err = GetAllRecurringRules(ctx, pool, userID); err != nil {
		return nil, err
	}
	if backup.Shortcuts, err = GetAllShortcuts(ctx, pool, userID); err != nil {
		return nil, err
	}

	return backup, nil
}

func exportAccounts(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Account, error) {
	rows, err := pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка выгрузки счетов")
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

func exportTransactions(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Transaction, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, user_id, date, description, amount, category_id, kind, created_at
		FROM transactions WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка выгрузки транзакций")
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Description, &t.Amount, &t.CategoryID, &t.Kind, &t.CreatedAt); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения транзакции")
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func exportEntries(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Entry, error) {
	rows, err := pool.Query(ctx, `
		SELECT e.id, e.transaction_id, e.account_id, e.side, e.amount
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE t.user_id = $1
		ORDER BY e.id`, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка выгрузки проводок")
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Side, &e.Amount); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения проводки")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RestoreBackup атомарно заменяет все данные пользователя содержимым
// выгрузки: очистка в порядке зависимостей, затем вставка в обратном
// порядке с сохранением исходных числовых ID. Любой сбой оставляет
// данные в состоянии до вызова.
func RestoreBackup(ctx context.Context, pool *pgxpool.Pool, userID int, backup *models.Backup) error {
	if err := backup.ValidateVersion(); err != nil {
		return err
	}

	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := wipeUserDataTx(ctx, tx, userID); err != nil {
		return err
	}
	if err := restoreInsertTx(ctx, tx, userID, backup); err != nil {
		return err
	}
	if err := resetSequencesTx(ctx, tx); err != nil {
		return err
	}

	return commit(ctx, tx)
}

// wipeUserDataTx удаляет строки пользователя: сначала зависимые, затем
// счета, категории и настройки.
func wipeUserDataTx(ctx context.Context, tx pgx.Tx, userID int) error {
	statements := []string{
		`DELETE FROM shortcuts WHERE user_id = $1`,
		`DELETE FROM recurring_rules WHERE user_id = $1`,
		`DELETE FROM goals WHERE user_id = $1`,
		`DELETE FROM budgets WHERE user_id = $1`,
		// удаление транзакций каскадом убирает их проводки
		`DELETE FROM transactions WHERE user_id = $1`,
		`DELETE FROM accounts WHERE user_id = $1`,
		`DELETE FROM categories WHERE user_id = $1`,
		`DELETE FROM user_settings WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, userID); err != nil {
			return models.NewStorage(err, "ошибка очистки данных перед восстановлением")
		}
	}
	return nil
}

func restoreInsertTx(ctx context.Context, tx pgx.Tx, userID int, backup *models.Backup) error {
	for _, c := range backup.Categories {
		_, err := tx.Exec(ctx, `
			INSERT INTO categories (id, user_id, name, class, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, userID, c.Name, c.Class, c.CreatedAt)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления категории %d", c.ID)
		}
	}

	if backup.Settings != nil {
		s := backup.Settings
		_, err := tx.Exec(ctx, `
			INSERT INTO user_settings (id, user_id, currency, theme, weekly_reports)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, userID, s.Currency, s.Theme, s.WeeklyReports)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления настроек")
		}
	}

	accountClass := make(map[int]string, len(backup.Accounts))
	for _, a := range backup.Accounts {
		accountClass[a.ID] = a.Class
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (id, user_id, name, class, balance, currency, statement_balance, due_date, default_category_id, pinned, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			a.ID, userID, a.Name, a.Class, a.Balance, a.Currency,
			a.StatementBalance, a.DueDate, a.DefaultCategoryID, a.Pinned, a.CreatedAt)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления счета %d", a.ID)
		}
	}

	entriesByTxn := make(map[int][]models.Entry, len(backup.Transactions))
	for _, e := range backup.Entries {
		entriesByTxn[e.TransactionID] = append(entriesByTxn[e.TransactionID], e)
	}

	for _, t := range backup.Transactions {
		kind := t.Kind
		if kind == "" {
			// выгрузка без вида: восстанавливаем его по классам счетов проводок
			kind = inferKindFromEntries(entriesByTxn[t.ID], accountClass)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (id, user_id, date, description, amount, category_id, kind, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, userID, t.Date, t.Description, t.Amount, t.CategoryID, kind, t.CreatedAt)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления транзакции %d", t.ID)
		}
	}

	for _, e := range backup.Entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO entries (id, transaction_id, account_id, side, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			e.ID, e.TransactionID, e.AccountID, e.Side, e.Amount)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления проводки %d", e.ID)
		}
	}

	for _, b := range backup.Budgets {
		_, err := tx.Exec(ctx, `
			INSERT INTO budgets (id, user_id, category_id, amount, period)
			VALUES ($1, $2, $3, $4, $5)`,
			b.ID, userID, b.CategoryID, b.Amount, b.Period)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления бюджета %d", b.ID)
		}
	}

	for _, g := range backup.Goals {
		_, err := tx.Exec(ctx, `
			INSERT INTO goals (id, user_id, name, target_amount, current_amount, account_id, completed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			g.ID, userID, g.Name, g.TargetAmount, g.CurrentAmount, g.AccountID, g.Completed, g.CreatedAt)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления цели %d", g.ID)
		}
	}

	for _, r := range backup.RecurringRules {
		_, err := tx.Exec(ctx, `
			INSERT INTO recurring_rules
				(id, user_id, description, amount, category_id, kind, from_account_id, to_account_id,
				 frequency, next_run_date, last_run_date, active, total_occurrences, completed_occurrences)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			r.ID, userID, r.Description, r.Amount, r.CategoryID, r.Kind, r.FromAccountID, r.ToAccountID,
			r.Frequency, r.NextRunDate, r.LastRunDate, r.Active, r.TotalOccurrences, r.CompletedOccurrences)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления правила %d", r.ID)
		}
	}

	for _, s := range backup.Shortcuts {
		_, err := tx.Exec(ctx, `
			INSERT INTO shortcuts (id, user_id, name, description, amount, kind, from_account_id, to_account_id, category_id, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			s.ID, userID, s.Name, s.Description, s.Amount, s.Kind,
			s.FromAccountID, s.ToAccountID, s.CategoryID, s.Position)
		if err != nil {
			return models.NewStorage(err, "ошибка восстановления шаблона %d", s.ID)
		}
	}

	return nil
}

// inferKindFromEntries восстанавливает вид транзакции по классам счетов
// пары кредит/дебет той же таблицей классификации, что и при создании.
func inferKindFromEntries(entries []models.Entry, accountClass map[int]string) string {
	var sourceClass, destClass string
	for _, e := range entries {
		switch e.Side {
		case models.SideCredit:
			sourceClass = accountClass[e.AccountID]
		case models.SideDebit:
			destClass = accountClass[e.AccountID]
		}
	}
	return ledger.InferKind(sourceClass, destClass)
}

// resetSequencesTx выравнивает генераторы ID после вставки строк с
// исходными значениями, иначе следующая вставка столкнется с занятым ID.
func resetSequencesTx(ctx context.Context, tx pgx.Tx) error {
	tables := []string{
		"categories", "user_settings", "accounts", "transactions",
		"entries", "budgets", "goals", "recurring_rules", "shortcuts",
	}
	for _, table := range tables {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
			table, table)
		if _, err := tx.Exec(ctx, query); err != nil {
			return models.NewStorage(err, "ошибка сброса последовательности %s", table)
		}
	}
	return nil
}
