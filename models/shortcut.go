package models

// Shortcut — сохраненный шаблон транзакции для быстрого ввода.
// Запуск шаблона создает обычную проводку текущей датой.
type Shortcut struct {
	ID            int    `json:"id" db:"id"`
	UserID        int    `json:"user_id" db:"user_id"`
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	Amount        int64  `json:"amount" db:"amount"`
	Kind          string `json:"kind" db:"kind"`
	FromAccountID int    `json:"from_account_id" db:"from_account_id"`
	ToAccountID   int    `json:"to_account_id" db:"to_account_id"`
	CategoryID    *int   `json:"category_id,omitempty" db:"category_id"`
	Position      int    `json:"position" db:"sort_order"`
}
