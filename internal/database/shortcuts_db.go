package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

const shortcutColumns = `id, user_id, name, description, amount, kind, from_account_id, to_account_id, category_id, sort_order`

func scanShortcut(row pgx.Row) (*models.Shortcut, error) {
	s := &models.Shortcut{}
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Description,
		&s.Amount,
		&s.Kind,
		&s.FromAccountID,
		&s.ToAccountID,
		&s.CategoryID,
		&s.Position,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func CreateShortcut(ctx context.Context, pool *pgxpool.Pool, s *models.Shortcut) error {
	if s.Amount <= 0 {
		return models.NewValidation("сумма шаблона должна быть строго положительной, получено %d", s.Amount)
	}
	if !models.ValidKind(s.Kind) {
		return models.NewValidation("неизвестный вид транзакции: %q", s.Kind)
	}
	if s.FromAccountID == s.ToAccountID {
		return models.NewValidation("счет источника и получателя шаблона должны различаться")
	}

	query := `
		INSERT INTO shortcuts (user_id, name, description, amount, kind, from_account_id, to_account_id, category_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := pool.QueryRow(ctx, query,
		s.UserID, s.Name, s.Description, s.Amount, s.Kind,
		s.FromAccountID, s.ToAccountID, s.CategoryID, s.Position).Scan(&s.ID)
	if err != nil {
		return models.NewStorage(err, "ошибка при добавлении шаблона")
	}
	return nil
}

func GetShortcutByID(ctx context.Context, pool *pgxpool.Pool, shortcutID, userID int) (*models.Shortcut, error) {
	query := `SELECT ` + shortcutColumns + ` FROM shortcuts WHERE id = $1 AND user_id = $2`

	s, err := scanShortcut(pool.QueryRow(ctx, query, shortcutID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFound("шаблон с ID %d не найден", shortcutID)
		}
		return nil, models.NewStorage(err, "ошибка при получении шаблона")
	}
	return s, nil
}

func GetAllShortcuts(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Shortcut, error) {
	query := `SELECT ` + shortcutColumns + ` FROM shortcuts WHERE user_id = $1 ORDER BY sort_order, id`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, models.NewStorage(err, "ошибка при получении шаблонов")
	}
	defer rows.Close()

	var shortcuts []models.Shortcut
	for rows.Next() {
		s, err := scanShortcut(rows)
		if err != nil {
			return nil, models.NewStorage(err, "ошибка чтения шаблона")
		}
		shortcuts = append(shortcuts, *s)
	}
	return shortcuts, rows.Err()
}

func UpdateShortcut(ctx context.Context, pool *pgxpool.Pool, s *models.Shortcut) error {
	if s.Amount <= 0 {
		return models.NewValidation("сумма шаблона должна быть строго положительной, получено %d", s.Amount)
	}

	query := `
		UPDATE shortcuts
		SET name = $1, description = $2, amount = $3, kind = $4,
			from_account_id = $5, to_account_id = $6, category_id = $7, sort_order = $8
		WHERE id = $9 AND user_id = $10`

	result, err := pool.Exec(ctx, query,
		s.Name, s.Description, s.Amount, s.Kind,
		s.FromAccountID, s.ToAccountID, s.CategoryID, s.Position,
		s.ID, s.UserID)
	if err != nil {
		return models.NewStorage(err, "ошибка обновления шаблона")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("шаблон с ID %d не найден", s.ID)
	}
	return nil
}

func DeleteShortcut(ctx context.Context, pool *pgxpool.Pool, shortcutID, userID int) error {
	result, err := pool.Exec(ctx, `DELETE FROM shortcuts WHERE id = $1 AND user_id = $2`, shortcutID, userID)
	if err != nil {
		return models.NewStorage(err, "ошибка удаления шаблона")
	}
	if result.RowsAffected() == 0 {
		return models.NewNotFound("шаблон с ID %d не найден", shortcutID)
	}
	return nil
}

// RunShortcut создает обычную проводку по шаблону текущей датой.
// Возвращает ID созданной транзакции.
func RunShortcut(ctx context.Context, pool *pgxpool.Pool, shortcutID, userID int) (int, error) {
	s, err := GetShortcutByID(ctx, pool, shortcutID, userID)
	if err != nil {
		return 0, err
	}

	return CreateTransaction(ctx, pool, PostingInput{
		UserID:        userID,
		Date:          time.Now(),
		Description:   s.Description,
		Amount:        s.Amount,
		CategoryID:    s.CategoryID,
		Kind:          s.Kind,
		FromAccountID: s.FromAccountID,
		ToAccountID:   s.ToAccountID,
	})
}
