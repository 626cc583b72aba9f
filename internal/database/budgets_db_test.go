package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func TestBudgetSummariesCountMonthlySpending(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	food := createTestAccount(t, pool, uid, "Еда", models.AccountExpense)
	savings := createTestAccount(t, pool, uid, "Накопления", models.AccountAsset)

	category := &models.Category{UserID: uid, Name: "Продукты"}
	require.NoError(t, database.CreateCategory(ctx, pool, category))

	budget := &models.Budget{UserID: uid, CategoryID: category.ID, Amount: 40000, Period: "monthly"}
	require.NoError(t, database.CreateBudget(ctx, pool, budget))

	// Два списания в категории за текущий месяц.
	for _, amount := range []int64{6000, 4000} {
		_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
			UserID: uid, Date: time.Now(), Amount: amount, CategoryID: &category.ID,
			Kind: models.KindWithdrawal, FromAccountID: checking.ID, ToAccountID: food.ID,
		})
		require.NoError(t, err)
	}

	// Перевод с той же категорией не считается тратой.
	_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 7000, CategoryID: &category.ID,
		Kind: models.KindTransfer, FromAccountID: checking.ID, ToAccountID: savings.ID,
	})
	require.NoError(t, err)

	// Списание прошлого месяца тоже не попадает в окно.
	_, err = database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now().AddDate(0, 0, -40), Amount: 9000, CategoryID: &category.ID,
		Kind: models.KindWithdrawal, FromAccountID: checking.ID, ToAccountID: food.ID,
	})
	require.NoError(t, err)

	summaries, err := database.GetBudgetSummaries(ctx, pool, uid)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	require.Equal(t, int64(10000), s.Spent)
	require.Equal(t, int64(30000), s.Remaining)
	require.True(t, s.Progress.Equal(decimal.NewFromInt(25)), "прогресс: %s", s.Progress)
}
