package models

import "time"

// Частоты повторения.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

type RecurringRule struct {
	ID                   int        `json:"id" db:"id"`
	UserID               int        `json:"user_id" db:"user_id"`
	Description          string     `json:"description" db:"description"`
	Amount               int64      `json:"amount" db:"amount"`
	CategoryID           *int       `json:"category_id,omitempty" db:"category_id"`
	Kind                 string     `json:"kind" db:"kind"`
	FromAccountID        int        `json:"from_account_id" db:"from_account_id"`
	ToAccountID          int        `json:"to_account_id" db:"to_account_id"`
	Frequency            string     `json:"frequency" db:"frequency"`
	NextRunDate          time.Time  `json:"next_run_date" db:"next_run_date"`
	LastRunDate          *time.Time `json:"last_run_date,omitempty" db:"last_run_date"`
	Active               bool       `json:"active" db:"active"`
	TotalOccurrences     *int       `json:"total_occurrences,omitempty" db:"total_occurrences"`
	CompletedOccurrences int        `json:"completed_occurrences" db:"completed_occurrences"`
}

// ValidFrequency проверяет частоту правила.
func ValidFrequency(freq string) bool {
	switch freq {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
		return true
	}
	return false
}

// Exhausted сообщает, исчерпано ли правило по количеству срабатываний.
func (r *RecurringRule) Exhausted() bool {
	return r.TotalOccurrences != nil && r.CompletedOccurrences >= *r.TotalOccurrences
}
