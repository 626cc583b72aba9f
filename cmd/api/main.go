package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/internal/logger"
	"github.com/valeriaulyamaeva/finance-ledger/internal/routes"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("не удалось подключиться к базе данных")
	}
	defer pool.Close()

	// Планировщик раз в минуту исполняет назревшие регулярные операции.
	scheduler := cron.New()
	_, err = scheduler.AddFunc("* * * * *", func() {
		runDueRules(ctx, pool, log)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("не удалось настроить планировщик")
	}
	scheduler.Start()
	defer scheduler.Stop()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: routes.SetupRouter(pool, log),
	}

	go func() {
		log.Info().Str("addr", addr).Msg("сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ошибка сервера")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ошибка при остановке сервера")
	}
}

// runDueRules находит правила, срок которых наступил, и проводит по ним операции.
func runDueRules(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) {
	rules, err := database.ListDueRecurringRules(ctx, pool, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("ошибка при выборке регулярных операций")
		return
	}
	for _, rule := range rules {
		txnID, err := database.ExecuteRecurringRule(ctx, pool, rule.ID, rule.UserID)
		if err != nil {
			log.Error().Err(err).Int("rule_id", rule.ID).Msg("ошибка при исполнении регулярной операции")
			continue
		}
		log.Info().Int("rule_id", rule.ID).Int("transaction_id", txnID).Msg("регулярная операция проведена")
	}
}
