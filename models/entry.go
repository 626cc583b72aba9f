package models

// Стороны проводки. Эффект на баланс зависит от класса счета,
// а не от стороны самой по себе.
const (
	SideDebit  = "debit"
	SideCredit = "credit"
)

type Entry struct {
	ID            int    `json:"id" db:"id"`
	TransactionID int    `json:"transaction_id" db:"transaction_id"`
	AccountID     int    `json:"account_id" db:"account_id"`
	Side          string `json:"side" db:"side"`
	Amount        int64  `json:"amount" db:"amount"` // абсолютная сумма, всегда > 0
}
