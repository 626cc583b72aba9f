package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// restoreCmd замещает данные пользователя содержимым JSON-снимка.
type restoreCmd struct {
	userID int
	in     string
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "восстановить данные пользователя из резервной копии" }
func (*restoreCmd) Usage() string {
	return `ledgerctl restore -user <id> -f <file>

  Полностью замещает данные пользователя содержимым снимка.
  Операция атомарна: при ошибке текущие данные остаются нетронутыми.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.userID, "user", 0, "идентификатор пользователя")
	f.StringVar(&c.in, "f", "", "файл резервной копии")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.userID <= 0 || c.in == "" {
		fmt.Fprintln(os.Stderr, "требуются флаги -user и -f")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка чтения файла: %v\n", err)
		return subcommands.ExitFailure
	}

	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		fmt.Fprintf(os.Stderr, "некорректный формат резервной копии: %v\n", err)
		return subcommands.ExitFailure
	}

	pool, err := database.ConnectDB(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка подключения: %v\n", err)
		return subcommands.ExitFailure
	}
	defer pool.Close()

	if err := database.RestoreBackup(ctx, pool, c.userID, &backup); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка восстановления: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("данные восстановлены из резервной копии")
	return subcommands.ExitSuccess
}
