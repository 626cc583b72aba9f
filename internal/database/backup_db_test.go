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

func TestBackupRestoreRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	salary := createTestAccount(t, pool, uid, "Зарплата", models.AccountRevenue)
	food := createTestAccount(t, pool, uid, "Еда", models.AccountExpense)

	category := &models.Category{UserID: uid, Name: "Продукты"}
	require.NoError(t, database.CreateCategory(ctx, pool, category))

	_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 80000,
		Kind: models.KindDeposit, FromAccountID: salary.ID, ToAccountID: checking.ID,
	})
	require.NoError(t, err)
	txnID, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 12000, CategoryID: &category.ID,
		Kind: models.KindWithdrawal, FromAccountID: checking.ID, ToAccountID: food.ID,
	})
	require.NoError(t, err)

	settings := &models.UserSettings{UserID: uid, Currency: "RUB", Theme: "dark"}
	require.NoError(t, database.UpsertUserSettings(ctx, pool, settings))

	backup, err := database.ExportBackup(ctx, pool, uid)
	require.NoError(t, err)
	require.Equal(t, models.BackupFormatVersion, backup.FormatVersion)
	require.Len(t, backup.Accounts, 3)
	require.Len(t, backup.Transactions, 2)
	require.Len(t, backup.Entries, 4)
	require.NotNil(t, backup.Settings)

	// Портим состояние после выгрузки, затем восстанавливаем снимок.
	_, err = database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 99999,
		Kind: models.KindWithdrawal, FromAccountID: checking.ID, ToAccountID: food.ID,
	})
	require.NoError(t, err)
	require.NoError(t, database.DeleteTransaction(ctx, pool, txnID, uid))

	require.NoError(t, database.RestoreBackup(ctx, pool, uid, backup))

	// Идентификаторы и балансы совпадают со снимком.
	require.Equal(t, int64(68000), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(80000), accountBalance(t, pool, salary.ID, uid))
	require.Equal(t, int64(12000), accountBalance(t, pool, food.ID, uid))

	txn, err := database.GetTransactionByID(ctx, pool, txnID, uid)
	require.NoError(t, err)
	require.Equal(t, int64(12000), txn.Amount)
	require.Equal(t, models.KindWithdrawal, txn.Kind)
	require.Len(t, txn.Entries, 2)

	restored, err := database.ExportBackup(ctx, pool, uid)
	require.NoError(t, err)
	require.Len(t, restored.Transactions, 2)
	require.Len(t, restored.Entries, 4)
	require.Equal(t, "dark", restored.Settings.Theme)

	// Новые записи после восстановления не конфликтуют по идентификаторам.
	newTxnID, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 500,
		Kind: models.KindWithdrawal, FromAccountID: checking.ID, ToAccountID: food.ID,
	})
	require.NoError(t, err)
	require.Greater(t, newTxnID, txnID)
}

func TestRestoreRollsBackOnMidInsertFailure(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)
	salary := createTestAccount(t, pool, uid, "Зарплата", models.AccountRevenue)

	_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID: uid, Date: time.Now(), Amount: 40000,
		Kind: models.KindDeposit, FromAccountID: salary.ID, ToAccountID: checking.ID,
	})
	require.NoError(t, err)

	backup, err := database.ExportBackup(ctx, pool, uid)
	require.NoError(t, err)
	require.NotEmpty(t, backup.Entries)

	// Проводка на несуществующий счет падает уже после зачистки и части
	// вставок. Откат обязан вернуть состояние до вызова целиком.
	broken := backup.Entries[0]
	broken.ID += 1000
	broken.AccountID = -1
	backup.Entries = append(backup.Entries, broken)

	err = database.RestoreBackup(ctx, pool, uid, backup)
	var se *models.StorageError
	require.True(t, errors.As(err, &se), "хотели StorageError, получили %v", err)

	require.Equal(t, int64(40000), accountBalance(t, pool, checking.ID, uid))
	require.Equal(t, int64(40000), accountBalance(t, pool, salary.ID, uid))

	txns, err := database.GetAllTransactions(ctx, pool, uid)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn, err := database.GetTransactionByID(ctx, pool, txns[0].ID, uid)
	require.NoError(t, err)
	require.Len(t, txn.Entries, 2)

	accounts, err := database.GetAllAccounts(ctx, pool, uid)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}

func TestRestoreRejectsUnknownFormatVersion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	checking := createTestAccount(t, pool, uid, "Счет", models.AccountAsset)

	backup, err := database.ExportBackup(ctx, pool, uid)
	require.NoError(t, err)
	backup.FormatVersion = 99

	err = database.RestoreBackup(ctx, pool, uid, backup)
	var ise *models.InvalidStateError
	require.True(t, errors.As(err, &ise), "хотели InvalidStateError, получили %v", err)

	// Отклоненное восстановление не трогает текущие данные.
	accounts, err := database.GetAllAccounts(ctx, pool, uid)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, checking.ID, accounts[0].ID)
}
