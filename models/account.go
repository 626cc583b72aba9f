package models

import "time"

// Классы счетов. Знак эффекта проводки зависит от класса (см. internal/ledger).
const (
	AccountAsset     = "asset"
	AccountLiability = "liability"
	AccountExpense   = "expense"
	AccountRevenue   = "revenue"
)

type Account struct {
	ID                int        `json:"id" db:"id"`
	UserID            int        `json:"user_id" db:"user_id"`
	Name              string     `json:"name" db:"name"`
	Class             string     `json:"class" db:"class"`
	Balance           int64      `json:"balance" db:"balance"` // в минорных единицах валюты (копейки/центы)
	Currency          string     `json:"currency" db:"currency"`
	StatementBalance  *int64     `json:"statement_balance,omitempty" db:"statement_balance"` // только для liability
	DueDate           *time.Time `json:"due_date,omitempty" db:"due_date"`                   // только для liability
	DefaultCategoryID *int       `json:"default_category_id,omitempty" db:"default_category_id"`
	Pinned            bool       `json:"pinned" db:"pinned"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// ValidAccountClass проверяет, что класс счета один из четырех допустимых.
func ValidAccountClass(class string) bool {
	switch class {
	case AccountAsset, AccountLiability, AccountExpense, AccountRevenue:
		return true
	}
	return false
}
