package models

import "time"

// Goal владеет собственным накопительным счетом класса asset (AccountID).
// Пока цель активна, CurrentAmount должен совпадать с балансом этого счета.
type Goal struct {
	ID            int       `json:"id" db:"id"`
	UserID        int       `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	TargetAmount  int64     `json:"target_amount" db:"target_amount"`
	CurrentAmount int64     `json:"current_amount" db:"current_amount"`
	AccountID     *int      `json:"account_id,omitempty" db:"account_id"`
	Completed     bool      `json:"completed" db:"completed"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// RemainingAmount возвращает, сколько осталось накопить.
func (g *Goal) RemainingAmount() int64 {
	if g.CurrentAmount >= g.TargetAmount {
		return 0
	}
	return g.TargetAmount - g.CurrentAmount
}
