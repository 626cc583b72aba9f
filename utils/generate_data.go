package utils

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// GenerateDemoData наполняет счет пользователя демонстрационными данными:
// счета всех классов, категории, проводки за последние месяцы, бюджет и цель.
// Все мутации идут через движок, поэтому балансы сходятся по построению.
func GenerateDemoData(ctx context.Context, pool *pgxpool.Pool, userID, numTransactions int) error {
	checking := &models.Account{UserID: userID, Name: "Основной счет", Class: models.AccountAsset, Currency: "RUB", Pinned: true}
	card := &models.Account{UserID: userID, Name: "Кредитная карта", Class: models.AccountLiability, Currency: "RUB"}
	salary := &models.Account{UserID: userID, Name: "Зарплата", Class: models.AccountRevenue, Currency: "RUB"}
	for _, acc := range []*models.Account{checking, card, salary} {
		if err := database.CreateAccount(ctx, pool, acc); err != nil {
			return err
		}
	}

	names := []string{"Продукты", "Транспорт", "Развлечения", "Коммунальные", "Здоровье"}
	expenseAccounts := make([]*models.Account, 0, len(names))
	categories := make([]*models.Category, 0, len(names))
	for _, name := range names {
		class := models.AccountExpense
		category := &models.Category{UserID: userID, Name: name, Class: &class}
		if err := database.CreateCategory(ctx, pool, category); err != nil {
			return err
		}
		categories = append(categories, category)

		acc := &models.Account{UserID: userID, Name: name, Class: models.AccountExpense, Currency: "RUB", DefaultCategoryID: &category.ID}
		if err := database.CreateAccount(ctx, pool, acc); err != nil {
			return err
		}
		expenseAccounts = append(expenseAccounts, acc)
	}

	// Пополнение, чтобы основному счету было с чего тратить
	_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
		UserID:        userID,
		Date:          time.Now().AddDate(0, -3, 0),
		Description:   "Начальное пополнение",
		Amount:        int64(numTransactions) * 100_00,
		Kind:          models.KindDeposit,
		FromAccountID: salary.ID,
		ToAccountID:   checking.ID,
	})
	if err != nil {
		return err
	}

	for i := 0; i < numTransactions; i++ {
		n := rand.Intn(len(expenseAccounts))
		from := checking.ID
		if rand.Intn(4) == 0 {
			from = card.ID // иногда тратим с карты
		}
		_, err := database.CreateTransaction(ctx, pool, database.PostingInput{
			UserID:        userID,
			Date:          gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now()),
			Description:   gofakeit.ProductName(),
			Amount:        int64(gofakeit.Number(50, 5000)) * 100,
			CategoryID:    &categories[n].ID,
			Kind:          models.KindWithdrawal,
			FromAccountID: from,
			ToAccountID:   expenseAccounts[n].ID,
		})
		if err != nil {
			return err
		}
	}

	budget := &models.Budget{UserID: userID, CategoryID: categories[0].ID, Amount: 40_000_00, Period: "monthly"}
	if err := database.CreateBudget(ctx, pool, budget); err != nil {
		return err
	}

	goal := &models.Goal{UserID: userID, Name: gofakeit.City(), TargetAmount: 150_000_00}
	if err := database.CreateGoal(ctx, pool, goal, "RUB"); err != nil {
		return err
	}
	if _, err := database.ContributeToGoal(ctx, pool, goal.ID, userID, checking.ID, 20_000_00); err != nil {
		return err
	}

	log.Printf("Демо-данные созданы: %d транзакций для пользователя %d", numTransactions+2, userID)
	return nil
}
