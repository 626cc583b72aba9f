package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func TestExecuteRecurringRuleAdvancesSchedule(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	rent := createTestAccount(t, pool, uid, "Аренда", models.AccountExpense)

	next := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	rule := &models.RecurringRule{
		UserID:        uid,
		Description:   "аренда квартиры",
		Amount:        45000,
		Kind:          models.KindWithdrawal,
		FromAccountID: checking.ID,
		ToAccountID:   rent.ID,
		Frequency:     models.FreqMonthly,
		NextRunDate:   next,
		Active:        true,
	}
	require.NoError(t, database.CreateRecurringRule(ctx, pool, rule))

	txnID, err := database.ExecuteRecurringRule(ctx, pool, rule.ID, uid)
	require.NoError(t, err)

	txn, err := database.GetTransactionByID(ctx, pool, txnID, uid)
	require.NoError(t, err)
	require.Equal(t, int64(45000), txn.Amount)
	require.Equal(t, int64(-45000), accountBalance(t, pool, checking.ID, uid))

	got, err := database.GetRecurringRuleByID(ctx, pool, rule.ID, uid)
	require.NoError(t, err)
	require.True(t, got.NextRunDate.Equal(next.AddDate(0, 1, 0)), "следующий запуск: %v", got.NextRunDate)
	require.NotNil(t, got.LastRunDate)
	require.Equal(t, 1, got.CompletedOccurrences)
	require.True(t, got.Active)
}

func TestExecuteRecurringRuleDeactivatesAtCap(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	savings := createTestAccount(t, pool, uid, "Накопления", models.AccountAsset)

	total := 1
	rule := &models.RecurringRule{
		UserID:           uid,
		Description:      "разовый перевод",
		Amount:           1000,
		Kind:             models.KindTransfer,
		FromAccountID:    checking.ID,
		ToAccountID:      savings.ID,
		Frequency:        models.FreqWeekly,
		NextRunDate:      time.Now(),
		Active:           true,
		TotalOccurrences: &total,
	}
	require.NoError(t, database.CreateRecurringRule(ctx, pool, rule))

	_, err := database.ExecuteRecurringRule(ctx, pool, rule.ID, uid)
	require.NoError(t, err)

	got, err := database.GetRecurringRuleByID(ctx, pool, rule.ID, uid)
	require.NoError(t, err)
	require.False(t, got.Active)
	require.True(t, got.Exhausted())

	// Исчерпанное правило не исполняется и не включается обратно.
	var ise *models.InvalidStateError
	_, err = database.ExecuteRecurringRule(ctx, pool, rule.ID, uid)
	require.True(t, errors.As(err, &ise))
	err = database.ToggleRecurringRule(ctx, pool, rule.ID, uid)
	require.True(t, errors.As(err, &ise))
}

func TestCreateRecurringRuleRejectsSameAccount(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)

	rule := &models.RecurringRule{
		UserID: uid, Amount: 1000, Kind: models.KindTransfer,
		FromAccountID: checking.ID, ToAccountID: checking.ID,
		Frequency: models.FreqMonthly, NextRunDate: time.Now(), Active: true,
	}
	err := database.CreateRecurringRule(ctx, pool, rule)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "хотели ValidationError, получили %v", err)
}

func TestSkipRecurringRuleRequiresActive(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	rent := createTestAccount(t, pool, uid, "Аренда", models.AccountExpense)

	next := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	rule := &models.RecurringRule{
		UserID: uid, Amount: 700, Kind: models.KindWithdrawal,
		FromAccountID: checking.ID, ToAccountID: rent.ID,
		Frequency: models.FreqMonthly, NextRunDate: next, Active: true,
	}
	require.NoError(t, database.CreateRecurringRule(ctx, pool, rule))
	require.NoError(t, database.ToggleRecurringRule(ctx, pool, rule.ID, uid))

	// Пауза означает заморозку расписания: пропуск его не двигает.
	err := database.SkipRecurringRule(ctx, pool, rule.ID, uid)
	var ise *models.InvalidStateError
	require.True(t, errors.As(err, &ise), "хотели InvalidStateError, получили %v", err)

	got, err := database.GetRecurringRuleByID(ctx, pool, rule.ID, uid)
	require.NoError(t, err)
	require.True(t, got.NextRunDate.Equal(next), "дата запуска: %v", got.NextRunDate)
}

func TestSkipRecurringRuleAdvancesWithoutPosting(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	rent := createTestAccount(t, pool, uid, "Аренда", models.AccountExpense)

	next := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rule := &models.RecurringRule{
		UserID:        uid,
		Amount:        500,
		Kind:          models.KindWithdrawal,
		FromAccountID: checking.ID,
		ToAccountID:   rent.ID,
		Frequency:     models.FreqDaily,
		NextRunDate:   next,
		Active:        true,
	}
	require.NoError(t, database.CreateRecurringRule(ctx, pool, rule))

	require.NoError(t, database.SkipRecurringRule(ctx, pool, rule.ID, uid))

	got, err := database.GetRecurringRuleByID(ctx, pool, rule.ID, uid)
	require.NoError(t, err)
	require.True(t, got.NextRunDate.Equal(next.AddDate(0, 0, 1)), "следующий запуск: %v", got.NextRunDate)
	require.Equal(t, 0, got.CompletedOccurrences)
	require.Equal(t, int64(0), accountBalance(t, pool, checking.ID, uid))

	txns, err := database.GetAllTransactions(ctx, pool, uid)
	require.NoError(t, err)
	require.Empty(t, txns)
}

func TestListDueRecurringRules(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	rent := createTestAccount(t, pool, uid, "Аренда", models.AccountExpense)

	due := &models.RecurringRule{
		UserID: uid, Amount: 100, Kind: models.KindWithdrawal,
		FromAccountID: checking.ID, ToAccountID: rent.ID,
		Frequency: models.FreqMonthly, NextRunDate: time.Now().AddDate(0, 0, -1), Active: true,
	}
	future := &models.RecurringRule{
		UserID: uid, Amount: 100, Kind: models.KindWithdrawal,
		FromAccountID: checking.ID, ToAccountID: rent.ID,
		Frequency: models.FreqMonthly, NextRunDate: time.Now().AddDate(0, 1, 0), Active: true,
	}
	require.NoError(t, database.CreateRecurringRule(ctx, pool, due))
	require.NoError(t, database.CreateRecurringRule(ctx, pool, future))

	rules, err := database.ListDueRecurringRules(ctx, pool, time.Now())
	require.NoError(t, err)

	ids := make(map[int]bool, len(rules))
	for _, r := range rules {
		ids[r.ID] = true
	}
	require.True(t, ids[due.ID])
	require.False(t, ids[future.ID])
}
