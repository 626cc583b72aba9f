package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func TestUpsertUserSettings(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uid := newTestUserID()

	_, err := database.GetUserSettings(ctx, pool, uid)
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))

	settings := &models.UserSettings{UserID: uid, Currency: "RUB", Theme: "light"}
	require.NoError(t, database.UpsertUserSettings(ctx, pool, settings))

	// Повторная запись обновляет существующую строку.
	settings.Theme = "dark"
	settings.WeeklyReports = true
	require.NoError(t, database.UpsertUserSettings(ctx, pool, settings))

	got, err := database.GetUserSettings(ctx, pool, uid)
	require.NoError(t, err)
	require.Equal(t, "dark", got.Theme)
	require.True(t, got.WeeklyReports)
}
