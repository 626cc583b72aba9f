package models

type UserSettings struct {
	ID            int    `json:"id" db:"id"`
	UserID        int    `json:"user_id" db:"user_id"`
	Currency      string `json:"currency" db:"currency"` // метка валюты, без конвертации
	Theme         string `json:"theme" db:"theme"`
	WeeklyReports bool   `json:"weekly_reports" db:"weekly_reports"`
}
