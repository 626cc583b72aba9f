package models

import "time"

// Виды транзакций. Вид определяет роли счетов: источник кредитуется,
// получатель дебетуется (см. internal/ledger).
const (
	KindWithdrawal = "withdrawal"
	KindDeposit    = "deposit"
	KindTransfer   = "transfer"
)

type Transaction struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description" db:"description"`
	Amount      int64     `json:"amount" db:"amount"` // всегда положительная абсолютная сумма
	CategoryID  *int      `json:"category_id,omitempty" db:"category_id"`
	Kind        string    `json:"kind" db:"kind"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Entries     []Entry   `json:"entries,omitempty" db:"-"`
}

// ValidKind проверяет вид транзакции.
func ValidKind(kind string) bool {
	switch kind {
	case KindWithdrawal, KindDeposit, KindTransfer:
		return true
	}
	return false
}
