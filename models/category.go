package models

import "time"

type Category struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Class     *string   `json:"class,omitempty" db:"class"` // expense или revenue, только для группировки
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
