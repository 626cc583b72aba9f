// Package ledger содержит чистое ядро двойной записи: таблицу знаков,
// таблицу ролей счетов по виду транзакции и календарное продвижение
// расписаний. Пакет не обращается к хранилищу и не имеет состояния.
package ledger

import "github.com/valeriaulyamaeva/finance-ledger/models"

// Delta возвращает знаковый эффект проводки на баланс счета.
// asset и expense растут по дебету, liability и revenue — по кредиту.
// Функция тотальна: не падает ни на каких входах, amount — абсолютная сумма.
func Delta(class, side string, amount int64) int64 {
	debitNormal := class == models.AccountAsset || class == models.AccountExpense
	if side == models.SideDebit {
		if debitNormal {
			return amount
		}
		return -amount
	}
	if debitNormal {
		return -amount
	}
	return amount
}

// ValidatePostingClasses проверяет, что классы счетов допустимы для ролей
// в проводке данного вида: источник кредитуется, получатель дебетуется.
//
//	withdrawal: источник asset|liability, получатель expense|liability
//	deposit:    источник revenue,         получатель asset
//	transfer:   источник asset|liability, получатель asset|liability
//
// Нарушение — ValidationError до какой-либо записи.
func ValidatePostingClasses(kind, sourceClass, destClass string) error {
	switch kind {
	case models.KindWithdrawal:
		if sourceClass != models.AccountAsset && sourceClass != models.AccountLiability {
			return models.NewValidation("списание возможно только со счета класса asset или liability, получен %q", sourceClass)
		}
		if destClass != models.AccountExpense && destClass != models.AccountLiability {
			return models.NewValidation("получателем списания может быть только счет класса expense или liability, получен %q", destClass)
		}
	case models.KindDeposit:
		if sourceClass != models.AccountRevenue {
			return models.NewValidation("источником пополнения может быть только счет класса revenue, получен %q", sourceClass)
		}
		if destClass != models.AccountAsset {
			return models.NewValidation("получателем пополнения может быть только счет класса asset, получен %q", destClass)
		}
	case models.KindTransfer:
		if sourceClass != models.AccountAsset && sourceClass != models.AccountLiability {
			return models.NewValidation("перевод возможен только со счета класса asset или liability, получен %q", sourceClass)
		}
		if destClass != models.AccountAsset && destClass != models.AccountLiability {
			return models.NewValidation("получателем перевода может быть только счет класса asset или liability, получен %q", destClass)
		}
	default:
		return models.NewValidation("неизвестный вид транзакции: %q", kind)
	}
	return nil
}
