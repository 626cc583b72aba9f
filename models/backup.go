package models

import (
	"time"

	"github.com/google/uuid"
)

// BackupFormatVersion — текущая версия формата выгрузки.
// Восстановление документа другой версии отклоняется.
const BackupFormatVersion = 1

// Backup — полная выгрузка данных одного пользователя.
// Порядок срезов повторяет порядок вставки при восстановлении.
type Backup struct {
	FormatVersion  int             `json:"format_version"`
	ExportID       uuid.UUID       `json:"export_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Categories     []Category      `json:"categories"`
	Settings       *UserSettings   `json:"settings,omitempty"`
	Accounts       []Account       `json:"accounts"`
	Transactions   []Transaction   `json:"transactions"`
	Entries        []Entry         `json:"entries"`
	Budgets        []Budget        `json:"budgets"`
	Goals          []Goal          `json:"goals"`
	RecurringRules []RecurringRule `json:"recurring_rules"`
	Shortcuts      []Shortcut      `json:"shortcuts"`
}

// ValidateVersion проверяет совместимость версии формата.
func (b *Backup) ValidateVersion() error {
	if b.FormatVersion != BackupFormatVersion {
		return NewInvalidState("неподдерживаемая версия формата выгрузки: %d (ожидается %d)",
			b.FormatVersion, BackupFormatVersion)
	}
	return nil
}
