package models

import "github.com/shopspring/decimal"

type Budget struct {
	ID         int    `json:"id" db:"id"`
	UserID     int    `json:"user_id" db:"user_id"`
	CategoryID int    `json:"category_id" db:"category_id"`
	Amount     int64  `json:"amount" db:"amount"` // месячный лимит в минорных единицах
	Period     string `json:"period" db:"period"`
}

// BudgetSummary — бюджет с вычисленными на чтении полями за текущий месяц.
// Потраченная сумма не хранится, она считается по транзакциям категории.
type BudgetSummary struct {
	Budget
	Spent     int64           `json:"spent"`
	Remaining int64           `json:"remaining"`
	Progress  decimal.Decimal `json:"progress"` // процент исполнения, 0–100 и выше при перерасходе
}

// Summarize заполняет вычисляемые поля по известной потраченной сумме.
func (b Budget) Summarize(spent int64) BudgetSummary {
	s := BudgetSummary{Budget: b, Spent: spent, Remaining: b.Amount - spent}
	if b.Amount > 0 {
		s.Progress = decimal.NewFromInt(spent).
			Div(decimal.NewFromInt(b.Amount)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return s
}
