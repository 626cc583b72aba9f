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

// PostingInput — проверенный ввод для создания сбалансированной транзакции.
// Источник (FromAccountID) кредитуется, получатель (ToAccountID) дебетуется.
type PostingInput struct {
	UserID        int
	Date          time.Time
	Description   string
	Amount        int64
	CategoryID    *int
	Kind          string
	FromAccountID int
	ToAccountID   int
}

func validatePosting(in PostingInput) error {
	if in.Amount <= 0 {
		return models.NewValidation("сумма транзакции должна быть строго положительной, получено %d", in.Amount)
	}
	if !models.ValidKind(in.Kind) {
		return models.NewValidation("неизвестный вид транзакции: %q", in.Kind)
	}
	if in.FromAccountID == 0 || in.ToAccountID == 0 {
		return models.NewValidation("для вида %q обязательны оба счета", in.Kind)
	}
	if in.FromAccountID == in.ToAccountID {
		return models.NewValidation("счет источника и получателя должны различаться")
	}
	return nil
}

// CreateTransaction создает транзакцию с парой сбалансированных проводок
// и применяет эффекты к балансам. Все внутри одной атомарной единицы.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, in PostingInput) (int, error) {
	tx, err := begin(ctx, pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	id, err := createTransactionTx(ctx, tx, in)
	if err != nil {
		return 0, err
	}
	if err := commit(ctx, tx); err != nil {
		return 0, err
	}
	return id, nil
}

// createTransactionTx — вариант для уже открытой атомарной единицы.
// Им пользуются движки повторов, целей и восстановления, поэтому проверка
// ввода выполняется здесь, а не только на внешнем входе.
func createTransactionTx(ctx context.Context, tx pgx.Tx, in PostingInput) (int, error) {
	if err := validatePosting(in); err != nil {
		return 0, err
	}

	source, err := lockAccountTx(ctx, tx, in.FromAccountID, in.UserID)
	if err != nil {
		return 0, err
	}
	dest, err := lockAccountTx(ctx, tx, in.ToAccountID, in.UserID)
	if err != nil {
		return 0, err
	}
	if err := ledger.ValidatePostingClasses(in.Kind, source.Class, dest.Class); err != nil {
		return 0, err
	}

	var txnID int
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, date, description, amount, category_id, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		in.UserID, in.Date, in.Description, in.Amount, in.CategoryID, in.Kind).Scan(&txnID)
	if err != nil {
		return 0, models.NewStorage(err, "ошибка при добавлении транзакции")
	}

	if err := postEntriesTx(ctx, tx, txnID, in.Amount, source, dest); err != nil {
		return 0, err
	}
	return txnID, nil
}

// postEntriesTx вставляет кредит источника и дебет получателя на одну и ту же
// абсолютную сумму и применяет соответствующие знаковые эффекты к балансам.
func postEntriesTx(ctx context.Context, tx pgx.Tx, txnID int, amount int64, source, dest *models.Account) error {
	const insertEntry = `INSERT INTO entries (transaction_id, account_id, side, amount) VALUES ($1, $2, $3, $4)`

	if _, err := tx.Exec(ctx, insertEntry, txnID, source.ID, models.SideCredit, amount); err != nil {
		return models.NewStorage(err, "ошибка при добавлении проводки источника")
	}
	if _, err := tx.Exec(ctx, insertEntry, txnID, dest.ID, models.SideDebit, amount); err != nil {
		return models.NewStorage(err, "ошибка при добавлении проводки получателя")
	}

	if err := applyDeltaTx(ctx, tx, source.ID, ledger.Delta(source.Class, models.SideCredit, amount)); err != nil {
		return err
	}
	return applyDeltaTx(ctx, tx, dest.ID, ledger.Delta(dest.Class, models.SideDebit, amount))
}

type entryWithClass struct {
	models.Entry
	Class string
}

// loadEntriesWithClassTx читает проводки транзакции вместе с классами их
// счетов, блокируя строки счетов до конца атомарной единицы.
func loadEntriesWithClassTx(ctx context.Context, tx pgx.Tx, txnID int) ([]entryWithClass, error) {
	rows, err := tx.Query(ctx, `
		SELECT e.id, e.transaction_id, e.account_id, e.side, e.amount, a.class
		FROM entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE e.transaction_id = $1
		ORDER BY e.id
		FOR UPDATE OF a`,
		txnID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при чтении проводок транзакции")
	}
	defer rows.Close()

	var entries []entryWithClass
	for rows.Next() {
		var e entryWithClass
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Side, &e.Amount, &e.Class); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения проводки")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// reverseEntriesTx применяет к каждому счету минус исходного эффекта
// проводки (сторно). Порядок не важен: эффекты аддитивны.
// Если syncGoals установлен, сторно по накопительному счету активной цели
// также корректирует ее накопленную сумму.
func reverseEntriesTx(ctx context.Context, tx pgx.Tx, entries []entryWithClass, syncGoals bool) error {
	for _, e := range entries {
		reversal := -ledger.Delta(e.Class, e.Side, e.Amount)
		if err := applyDeltaTx(ctx, tx, e.AccountID, reversal); err != nil {
			return err
		}
		if syncGoals {
			_, err := tx.Exec(ctx, `
				UPDATE goals SET current_amount = current_amount + $1
				WHERE account_id = $2 AND completed = false`,
				reversal, e.AccountID)
			if err != nil {
				return models.NewStorage(err, "ошибка синхронизации цели по счету %d", e.AccountID)
			}
		}
	}
	return nil
}

// accountLinkedToActiveGoalTx сообщает, привязан ли счет к незакрытой цели.
func accountLinkedToActiveGoalTx(ctx context.Context, tx pgx.Tx, accountID int) (bool, error) {
	var goalID int
	err := tx.QueryRow(ctx,
		`SELECT id FROM goals WHERE account_id = $1 AND completed = false`, accountID).Scan(&goalID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, models.NewStorage(err, "ошибка проверки привязки счета %d к цели", accountID)
}

// lockTransactionTx проверяет существование и принадлежность транзакции.
func lockTransactionTx(ctx context.Context, tx pgx.Tx, txnID, userID int) error {
	var id int
	err := tx.QueryRow(ctx,
		`SELECT id FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		txnID, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewNotFound("транзакция с ID %d не найдена", txnID)
		}
		return models.NewStorage(err, "ошибка при получении транзакции")
	}
	return nil
}

// UpdateTransaction дает тот же итог, что удаление и пересоздание с новыми
// значениями, но атомарно: сторно старых проводок, замена полей, новая пара
// проводок — одной единицей.
func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, txnID int, in PostingInput) error {
	if err := validatePosting(in); err != nil {
		return err
	}

	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockTransactionTx(ctx, tx, txnID, in.UserID); err != nil {
		return err
	}

	entries, err := loadEntriesWithClassTx(ctx, tx, txnID)
	if err != nil {
		return err
	}

	// Транзакции по счету незакрытой цели правятся только операциями цели,
	// иначе ее накопленная сумма разойдется с балансом счета. Проверяются и
	// старые проводки, и новые счета.
	touched := make([]int, 0, len(entries)+2)
	for _, e := range entries {
		touched = append(touched, e.AccountID)
	}
	touched = append(touched, in.FromAccountID, in.ToAccountID)
	for _, accountID := range touched {
		linked, err := accountLinkedToActiveGoalTx(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if linked {
			return models.NewInvalidState(
				"счет %d привязан к активной цели, транзакцию можно только удалить или вести через операции цели", accountID)
		}
	}

	if err := reverseEntriesTx(ctx, tx, entries, false); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE transaction_id = $1`, txnID); err != nil {
		return models.NewStorage(err, "ошибка удаления старых проводок")
	}

	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET date = $1, description = $2, amount = $3, category_id = $4, kind = $5
		WHERE id = $6`,
		in.Date, in.Description, in.Amount, in.CategoryID, in.Kind, txnID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления транзакции")
	}

	source, err := lockAccountTx(ctx, tx, in.FromAccountID, in.UserID)
	if err != nil {
		return err
	}
	dest, err := lockAccountTx(ctx, tx, in.ToAccountID, in.UserID)
	if err != nil {
		return err
	}
	if err := ledger.ValidatePostingClasses(in.Kind, source.Class, dest.Class); err != nil {
		return err
	}
	if err := postEntriesTx(ctx, tx, txnID, in.Amount, source, dest); err != nil {
		return err
	}

	return commit(ctx, tx)
}

// DeleteTransaction сторнирует эффекты проводок (включая накопленную сумму
// задетой активной цели), затем явно удаляет проводки и саму транзакцию.
func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, txnID, userID int) error {
	tx, err := begin(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockTransactionTx(ctx, tx, txnID, userID); err != nil {
		return err
	}

	entries, err := loadEntriesWithClassTx(ctx, tx, txnID)
	if err != nil {
		return err
	}
	if err := reverseEntriesTx(ctx, tx, entries, true); err != nil {
		return err
	}

	// Каскад удалил бы проводки и сам, но контракт двухшаговый и явный
	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE transaction_id = $1`, txnID); err != nil {
		return models.NewStorage(err, "ошибка удаления проводок")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, txnID); err != nil {
		return models.NewStorage(err, "ошибка удаления транзакции")
	}

	return commit(ctx, tx)
}

// GetTransactionByID возвращает транзакцию вместе с ее проводками.
func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, txnID, userID int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, date, description, amount, category_id, kind, created_at
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	txn := &models.Transaction{}
	err := pool.QueryRow(ctx, query, txnID, userID).Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Date,
		&txn.Description,
		&txn.Amount,
		&txn.CategoryID,
		&txn.Kind,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("транзакция с ID %d не найдена", txnID)
		}
		return nil, models.NewStorage(err, "ошибка при получении транзакции")
	}

	rows, err := pool.Query(ctx,
		`SELECT id, transaction_id, account_id, side, amount FROM entries WHERE transaction_id = $1 ORDER BY id`,
		txnID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении проводок")
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Side, &e.Amount); err != nil {
			return nil, models.NewStorage(err, "ошибка чтения проводки")
		}
		txn.Entries = append(txn.Entries, e)
	}
	return txn, rows.Err()
}

// GetAllTransactions возвращает транзакции пользователя, новые первыми.
func GetAllTransactions(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, date, description, amount, category_id, kind, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении транзакций")
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Description, &txn.Amount, &txn.CategoryID, &txn.Kind, &txn.CreatedAt)
		if err != nil {
			return nil, models.NewStorage(err, "ошибка чтения транзакции")
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
