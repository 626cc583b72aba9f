package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func GetUserSettings(ctx context.Context, pool *pgxpool.Pool, userID int) (*models.UserSettings, error) {
	query := `SELECT id, user_id, currency, theme, weekly_reports FROM user_settings WHERE user_id = $1`

	settings := &models.UserSettings{}
	err := pool.QueryRow(ctx, query, userID).Scan(
		&settings.ID,
		&settings.UserID,
		&settings.Currency,
		&settings.Theme,
		&settings.WeeklyReports,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("настройки пользователя %d не найдены", userID)
		}
		return nil, models.NewStorage(err, "ошибка при получении настроек")
	}
	return settings, nil
}

// UpsertUserSettings создает или обновляет единственную строку настроек пользователя.
func UpsertUserSettings(ctx context.Context, pool *pgxpool.Pool, settings *models.UserSettings) error {
	if err := models.ValidateCurrency(settings.Currency); err != nil {
		return err
	}

	query := `
		INSERT INTO user_settings (user_id, currency, theme, weekly_reports)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET currency = EXCLUDED.currency, theme = EXCLUDED.theme, weekly_reports = EXCLUDED.weekly_reports
		RETURNING id`

	err := pool.QueryRow(ctx, query,
		settings.UserID,
		settings.Currency,
		settings.Theme,
		settings.WeeklyReports).Scan(&settings.ID)
	if err != nil {
		return models.NewStorage(err, "ошибка сохранения настроек")
	}
	return nil
}
