package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/utils"
)

// seedCmd наполняет счет пользователя демонстрационными данными.
type seedCmd struct {
	userID int
	count  int
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "сгенерировать демонстрационные данные" }
func (*seedCmd) Usage() string {
	return `ledgerctl seed -user <id> [-n <count>]

  Создает счета, категории, бюджет, цель и случайные операции.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.userID, "user", 0, "идентификатор пользователя")
	f.IntVar(&c.count, "n", 50, "количество случайных операций")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.userID <= 0 {
		fmt.Fprintln(os.Stderr, "требуется флаг -user")
		return subcommands.ExitUsageError
	}

	pool, err := database.ConnectDB(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка подключения: %v\n", err)
		return subcommands.ExitFailure
	}
	defer pool.Close()

	if err := utils.GenerateDemoData(ctx, pool, c.userID, c.count); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка генерации данных: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("сгенерировано %d операций для пользователя %d\n", c.count, c.userID)
	return subcommands.ExitSuccess
}
