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

func TestPostingUpdatesBalances(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Основной счет", models.AccountAsset)
	salary := createTestAccount(t, pool, uid, "Зарплата", models.AccountRevenue)
	groceries := createTestAccount(t, pool, uid, "Продукты", models.AccountExpense)

	// Поступление: кредит дохода, дебет актива.
	_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Description:   "зарплата за месяц",
		Amount:        100000,
		Kind:          models.KindDeposit,
		FromAccountID: salary.ID,
		ToAccountID:   checking.ID,
	})
	require.NoError(t, err)

	// Списание: кредит актива, дебет расхода.
	_, err = database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Description:   "магазин",
		Amount:        30000,
		Kind:          models.KindWithdrawal,
		FromAccountID: checking.ID,
		ToAccountID:   groceries.ID,
	})
	require.NoError(t, err)

	require.Equal(t, int64(70000), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(100000), accountBalance(t, pool, salary.ID, uid))
	require.Equal(t, int64(30000), accountBalance(t, pool, groceries.ID, uid))
}

func TestTransactionHasBalancedEntries(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	savings := createTestAccount(t, pool, uid, "Накопления", models.AccountAsset)

	txnID, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Description:   "перевод",
		Amount:        5000,
		Kind:          models.KindTransfer,
		FromAccountID: checking.ID,
		ToAccountID:   savings.ID,
	})
	require.NoError(t, err)

	txn, err := database.GetTransactionByID(ctx, pool, txnID, uid)
	require.NoError(t, err)
	require.Len(t, txn.Entries, 2)

	var credits, debits int64
	for _, e := range txn.Entries {
		require.Equal(t, int64(5000), e.Amount)
		switch e.Side {
		case models.SideCredit:
			credits += e.Amount
			require.Equal(t, checking.ID, e.AccountID)
		case models.SideDebit:
			debits += e.Amount
			require.Equal(t, savings.ID, e.AccountID)
		}
	}
	require.Equal(t, credits, debits)

	require.Equal(t, int64(-5000), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(5000), accountBalance(t, pool, savings.ID, uid))
}

func TestDeleteTransactionRestoresBalances(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	rent := createTestAccount(t, pool, uid, "Аренда", models.AccountExpense)

	txnID, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Amount:        45000,
		Kind:          models.KindWithdrawal,
		FromAccountID: checking.ID,
		ToAccountID:   rent.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(-45000), accountBalance(t, pool, checking.ID, uid))

	require.NoError(t, database.DeleteTransaction(ctx, pool, txnID, uid))

	require.Equal(t, int64(0), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(0), accountBalance(t, pool, rent.ID, uid))

	_, err = database.GetTransactionByID(ctx, pool, txnID, uid)
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestUpdateTransactionRepostsEntries(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	card := createTestAccount(t, pool, uid, "Карта", models.AccountAsset)
	food := createTestAccount(t, pool, uid, "Еда", models.AccountExpense)

	txnID, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Amount:        1000,
		Kind:          models.KindWithdrawal,
		FromAccountID: checking.ID,
		ToAccountID:   food.ID,
	})
	require.NoError(t, err)

	// Меняем и сумму, и счет источника: старые эффекты должны
	// полностью сняться, новые примениться.
	err = database.UpdateTransaction(ctx, pool, txnID, database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Amount:        2500,
		Kind:          models.KindWithdrawal,
		FromAccountID: card.ID,
		ToAccountID:   food.ID,
	})
	require.NoError(t, err)

	require.Equal(t, int64(0), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(-2500), accountBalance(t, pool, card.ID, uid))
	require.Equal(t, int64(2500), accountBalance(t, pool, food.ID, uid))
}

func TestUpdateTransactionWithSameValuesKeepsBalances(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	food := createTestAccount(t, pool, uid, "Еда", models.AccountExpense)

	in := database.PostingInput{
		UserID:        uid,
		Date:          time.Now(),
		Description:   "магазин",
		Amount:        1700,
		Kind:          models.KindWithdrawal,
		FromAccountID: checking.ID,
		ToAccountID:   food.ID,
	}
	txnID, err := database.CreateTransaction(ctx, pool, in)
	require.NoError(t, err)

	// Сторно плюс повторная проводка с теми же значениями дают ноль:
	// балансы после правки совпадают с балансами до нее.
	require.NoError(t, database.UpdateTransaction(ctx, pool, txnID, in))

	require.Equal(t, int64(-1700), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(1700), accountBalance(t, pool, food.ID, uid))

	txn, err := database.GetTransactionByID(ctx, pool, txnID, uid)
	require.NoError(t, err)
	require.Equal(t, int64(1700), txn.Amount)
	require.Len(t, txn.Entries, 2)
}

func TestPostingClassRulesEnforced(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	salary := createTestAccount(t, pool, uid, "Зарплата", models.AccountRevenue)
	food := createTestAccount(t, pool, uid, "Еда", models.AccountExpense)
	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)

	cases := []struct {
		name string
		in   database.PostingInput
	}{
		{
			name: "доход не может быть источником списания",
			in: database.PostingInput{
				UserID: uid, Amount: 100, Kind: models.KindWithdrawal,
				FromAccountID: salary.ID, ToAccountID: food.ID,
			},
		},
		{
			name: "расход не может быть получателем перевода",
			in: database.PostingInput{
				UserID: uid, Amount: 100, Kind: models.KindTransfer,
				FromAccountID: checking.ID, ToAccountID: food.ID,
			},
		},
		{
			name: "неположительная сумма",
			in: database.PostingInput{
				UserID: uid, Amount: 0, Kind: models.KindWithdrawal,
				FromAccountID: checking.ID, ToAccountID: food.ID,
			},
		},
		{
			name: "совпадающие счета",
			in: database.PostingInput{
				UserID: uid, Amount: 100, Kind: models.KindTransfer,
				FromAccountID: checking.ID, ToAccountID: checking.ID,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Date = time.Now()
			_, err := database.CreateTransaction(ctx, pool, tc.in)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "хотели ValidationError, получили %v", err)
		})
	}

	// Отклоненные попытки не должны оставлять следов на балансах.
	require.Equal(t, int64(0), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(0), accountBalance(t, pool, salary.ID, uid))
	require.Equal(t, int64(0), accountBalance(t, pool, food.ID, uid))
}

func TestDeleteAccountWithEntriesRefused(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	food := createTestAccount(t, pool, uid, "Еда", models.AccountExpense)

	_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 100,
		Kind: models.KindWithdrawal, FromAccountID: checking.ID, ToAccountID: food.ID,
	})
	require.NoError(t, err)

	err = database.DeleteAccount(ctx, pool, checking.ID, uid)
	var ise *models.InvalidStateError
	require.True(t, errors.As(err, &ise), "хотели InvalidStateError, получили %v", err)
}
