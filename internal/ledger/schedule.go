package ledger

import (
	"time"

	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// Advance возвращает следующую дату запуска правила: плюс один день,
// неделя, месяц или год. Перенос через конец месяца выполняется по
// стандартной календарной арифметике (31 января + месяц нормализуется).
func Advance(date time.Time, frequency string) (time.Time, error) {
	switch frequency {
	case models.FreqDaily:
		return date.AddDate(0, 0, 1), nil
	case models.FreqWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.FreqMonthly:
		return date.AddDate(0, 1, 0), nil
	case models.FreqYearly:
		return date.AddDate(1, 0, 0), nil
	}
	return time.Time{}, models.NewValidation("неизвестная частота правила: %q", frequency)
}
