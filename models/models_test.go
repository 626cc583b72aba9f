package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func TestBudgetSummarize(t *testing.T) {
	b := models.Budget{Amount: 50000}

	s := b.Summarize(12500)
	assert.Equal(t, int64(12500), s.Spent)
	assert.Equal(t, int64(37500), s.Remaining)
	assert.Equal(t, "25", s.Progress.String())

	// перерасход: остаток уходит в минус, прогресс выше 100
	s = b.Summarize(60000)
	assert.Equal(t, int64(-10000), s.Remaining)
	assert.Equal(t, "120", s.Progress.String())
}

func TestBudgetSummarizeZeroLimit(t *testing.T) {
	s := models.Budget{Amount: 0}.Summarize(100)
	assert.True(t, s.Progress.IsZero())
}

func TestBackupValidateVersion(t *testing.T) {
	b := &models.Backup{FormatVersion: models.BackupFormatVersion}
	assert.NoError(t, b.ValidateVersion())

	b.FormatVersion = 99
	err := b.ValidateVersion()
	var serr *models.InvalidStateError
	assert.ErrorAs(t, err, &serr)
}

func TestGoalRemainingAmount(t *testing.T) {
	g := &models.Goal{TargetAmount: 100000, CurrentAmount: 20000}
	assert.Equal(t, int64(80000), g.RemainingAmount())

	g.CurrentAmount = 120000
	assert.Zero(t, g.RemainingAmount())
}
