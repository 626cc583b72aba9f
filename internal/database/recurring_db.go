package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/ledger"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

const recurringColumns = `id, user_id, description, amount, category_id, kind, from_account_id, to_account_id,
	frequency, next_run_date, last_run_date, active, total_occurrences, completed_occurrences`

func scanRecurringRule(row pgx.Row) (*models.RecurringRule, error) {
	rule := &models.RecurringRule{}
	err := row.Scan(
		&rule.ID,
		&rule.UserID,
		&rule.Description,
		&rule.Amount,
		&rule.CategoryID,
		&rule.Kind,
		&rule.FromAccountID,
		&rule.ToAccountID,
		&rule.Frequency,
		&rule.NextRunDate,
		&rule.LastRunDate,
		&rule.Active,
		&rule.TotalOccurrences,
		&rule.CompletedOccurrences,
	)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func CreateRecurringRule(ctx context.Context, pool *pgxpool.Pool, rule *models.RecurringRule) error {
	if rule.Amount <= 0 {
		return models.NewValidation("сумма правила должна быть строго положительной, получено %d", rule.Amount)
	}
	if !models.ValidKind(rule.Kind) {
		return models.NewValidation("неизвестный вид транзакции: %q", rule.Kind)
	}
	if !models.ValidFrequency(rule.Frequency) {
		return models.NewValidation("неизвестная частота правила: %q", rule.Frequency)
	}
	if rule.TotalOccurrences != nil && *rule.TotalOccurrences <= 0 {
		return models.NewValidation("лимит срабатываний должен быть положительным")
	}
	if rule.FromAccountID == rule.ToAccountID {
		return models.NewValidation("счет источника и получателя правила должны различаться")
	}

	// Счета и допустимость их классов проверяются сразу, а не при первом запуске
	source, err := GetAccountByID(ctx, pool, rule.FromAccountID, rule.UserID)
	if err != nil {
		return err
	}
	dest, err := GetAccountByID(ctx, pool, rule.ToAccountID, rule.UserID)
	if err != nil {
		return err
	}
	if err := ledger.ValidatePostingClasses(rule.Kind, source.Class, dest.Class); err != nil {
		return err
	}

	query := `
		INSERT INTO recurring_rules
			(user_id, description, amount, category_id, kind, from_account_id, to_account_id,
			 frequency, next_run_date, active, total_occurrences, completed_occurrences)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0)
		RETURNING id`

	err = pool.QueryRow(ctx, query,
		rule.UserID,
		rule.Description,
		rule.Amount,
		rule.CategoryID,
		rule.Kind,
		rule.FromAccountID,
		rule.ToAccountID,
		rule.Frequency,
		rule.NextRunDate,
		rule.Active,
		rule.TotalOccurrences).Scan(&rule.ID)
	if err != nil {
		return models.NewStorage(err, "ошибка при добавлении правила повторения")
	}
	return nil
}

func GetRecurringRuleByID(ctx context.Context, pool *pgxpool.Pool, ruleID, userID int) (*models.RecurringRule, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_rules WHERE id = $1 AND user_id = $2`

	rule, err := scanRecurringRule(pool.QueryRow(ctx, query, ruleID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("правило с ID %d не найдено", ruleID)
		}
		return nil, models.NewStorage(err, "ошибка при получении правила")
	}
	return rule, nil
}

func GetAllRecurringRules(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.RecurringRule, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_rules WHERE user_id = $1 ORDER BY id`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении правил")
	}
	defer rows.Close()

	var rules []models.RecurringRule
	for rows.Next() {
		rule, err := scanRecurringRule(rows)
		if err != nil {
			return nil, models.NewStorage(err, "ошибка чтения правила")
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// ListDueRecurringRules возвращает активные правила всех пользователей,
// у которых подошла дата запуска. Используется внешним вызывающим (cron).
func ListDueRecurringRules(ctx context.Context, pool *pgxpool.Pool, now time.Time) ([]models.RecurringRule, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_rules WHERE active = true AND next_run_date <= $1 ORDER BY id`

	rows, err := pool.Query(ctx, query, now)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении правил к выполнению")
	}
	defer rows.Close()

	var rules []models.RecurringRule
	for rows.Next() {
		rule, err := scanRecurringRule(rows)
		if err != nil {
			return nil, models.NewStorage(err, "ошибка чтения правила")
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// lockRecurringRuleTx читает правило с блокировкой строки, чтобы два
// конкурентных запуска не продвинули расписание дважды.
func lockRecurringRuleTx(ctx context.Context, tx pgx.Tx, ruleID, userID int) (*models.RecurringRule, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_rules WHERE id = $1 AND user_id = $2 FOR UPDATE`

	rule, err := scanRecurringRule(tx.QueryRow(ctx, query, ruleID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("правило с ID %d не найдено", ruleID)
		}
		return nil, models.NewStorage(err, "ошибка при получении правила")
	}
	return rule, nil
}

// ExecuteRecurringRule создает проводку по правилу текущей датой и продвигает
// расписание. Неудавшаяся проводка не продвигает расписание: все в одной
// атомарной единице. Возвращает ID созданной транзакции.
func ExecuteRecurringRule(ctx context.Context, pool *pgxpool.Pool, ruleID, userID int) (int, error) {
	tx, err := begin(ctx, pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rule, err := lockRecurringRuleTx(ctx, tx, ruleID, userID)
	if err != nil {
		return 0, err
	}
	if !rule.Active {
		return 0, models.NewInvalidState("правило с ID %d неактивно", ruleID)
	}

	txnID, err := createTransactionTx(ctx, tx, PostingInput{
		UserID:        rule.UserID,
		Date:          time.Now(),
		Description:   rule.Description,
		Amount:        rule.Amount,
		CategoryID:    rule.CategoryID,
		Kind:          rule.Kind,
		FromAccountID: rule.FromAccountID,
		ToAccountID:   rule.ToAccountID,
	})
	if err != nil {
		return 0, err
	}

	next, err := ledger.Advance(rule.NextRunDate, rule.Frequency)
	if err != nil {
		return 0, err
	}
	completed := rule.CompletedOccurrences + 1
	active := rule.Active
	if rule.TotalOccurrences != nil && completed >= *rule.TotalOccurrences {
		active = false // правило исчерпано, терминальное состояние
	}

	_, err = tx.Exec(ctx, `
		UPDATE recurring_rules
		SET completed_occurrences = $1, last_run_date = $2, next_run_date = $3, active = $4
		WHERE id = $5`,
		completed, rule.NextRunDate, next, active, ruleID)
	if err != nil {
		return 0, models.NewStorage(err, "ошибка продвижения расписания правила")
	}

	if err := commit(ctx, tx); err != nil {
		return 0, err
	}
	return txnID, nil
}

// SkipRecurringRule продвигает дату запуска без проводки и без увеличения
// счетчика срабатываний. Как и исполнение, применим только к активному правилу.
func SkipRecurringRule(ctx context.Context, pool *pgxpool.Pool, ruleID, userID int) error {
	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rule, err := lockRecurringRuleTx(ctx, tx, ruleID, userID)
	if err != nil {
		return err
	}
	if !rule.Active {
		return models.NewInvalidState("правило с ID %d неактивно", ruleID)
	}

	next, err := ledger.Advance(rule.NextRunDate, rule.Frequency)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE recurring_rules SET next_run_date = $1 WHERE id = $2`, next, ruleID); err != nil {
		return models.NewStorage(err, "ошибка переноса даты запуска правила")
	}

	return commit(ctx, tx)
}

// ToggleRecurringRule переключает активность. Расписание и счетчики не
// меняются. Исчерпанное правило реактивировать нельзя.
func ToggleRecurringRule(ctx context.Context, pool *pgxpool.Pool, ruleID, userID int) error {
	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rule, err := lockRecurringRuleTx(ctx, tx, ruleID, userID)
	if err != nil {
		return err
	}
	if rule.Exhausted() {
		return models.NewInvalidState("правило с ID %d исчерпано и не может быть включено", ruleID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE recurring_rules SET active = NOT active WHERE id = $1`, ruleID); err != nil {
		return models.NewStorage(err, "ошибка переключения правила")
	}

	return commit(ctx, tx)
}

func UpdateRecurringRule(ctx context.Context, pool *pgxpool.Pool, rule *models.RecurringRule) error {
	if rule.Amount <= 0 {
		return models.NewValidation("сумма правила должна быть строго положительной, получено %d", rule.Amount)
	}
	if !models.ValidFrequency(rule.Frequency) {
		return models.NewValidation("неизвестная частота правила: %q", rule.Frequency)
	}

	query := `
		UPDATE recurring_rules
		SET description = $1, amount = $2, category_id = $3, frequency = $4, next_run_date = $5, total_occurrences = $6
		WHERE id = $7 AND user_id = $8`

	result, err := pool.Exec(ctx, query,
		rule.Description,
		rule.Amount,
		rule.CategoryID,
		rule.Frequency,
		rule.NextRunDate,
		rule.TotalOccurrences,
		rule.ID,
		rule.UserID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления правила")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("правило с ID %d не найдено", rule.ID)
	}
	return nil
}

func DeleteRecurringRule(ctx context.Context, pool *pgxpool.Pool, ruleID, userID int) error {
	result, err := pool.Exec(ctx, `DELETE FROM recurring_rules WHERE id = $1 AND user_id = $2`, ruleID, userID)
	if err != nil {
		return models.NewStorage(err, "ошибка удаления правила")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("правило с ID %d не найдено", ruleID)
	}
	return nil
}
