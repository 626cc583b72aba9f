package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-ledger/internal/ledger"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		freq string
		from time.Time
		want time.Time
	}{
		{models.FreqDaily, day(2025, time.March, 10), day(2025, time.March, 11)},
		{models.FreqDaily, day(2025, time.February, 28), day(2025, time.March, 1)},
		{models.FreqWeekly, day(2025, time.March, 10), day(2025, time.March, 17)},
		{models.FreqMonthly, day(2025, time.March, 15), day(2025, time.April, 15)},
		{models.FreqYearly, day(2025, time.March, 10), day(2026, time.March, 10)},
		// 29 февраля + год нормализуется в 1 марта
		{models.FreqYearly, day(2024, time.February, 29), day(2025, time.March, 1)},
	}
	for _, c := range cases {
		got, err := ledger.Advance(c.from, c.freq)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s от %s", c.freq, c.from.Format("2006-01-02"))
	}
}

// Перенос через конец месяца: 31 января + месяц = 31 февраля,
// что нормализуется в 3 марта (невисокосный год).
func TestAdvanceMonthEndRollover(t *testing.T) {
	got, err := ledger.Advance(day(2025, time.January, 31), models.FreqMonthly)
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 3), got)
}

func TestAdvanceUnknownFrequency(t *testing.T) {
	_, err := ledger.Advance(day(2025, time.January, 1), "fortnightly")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}
