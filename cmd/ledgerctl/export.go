package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
)

// exportCmd выгружает снимок данных пользователя в JSON-файл.
type exportCmd struct {
	userID int
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "выгрузить резервную копию данных пользователя" }
func (*exportCmd) Usage() string {
	return `ledgerctl export -user <id> [-o <file>]

  Выгружает все данные пользователя в JSON. Без флага -o пишет в stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.userID, "user", 0, "идентификатор пользователя")
	f.StringVar(&c.out, "o", "", "файл для записи (по умолчанию stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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

	backup, err := database.ExportBackup(ctx, pool, c.userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка выгрузки: %v\n", err)
		return subcommands.ExitFailure
	}

	w := os.Stdout
	if c.out != "" {
		file, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ошибка создания файла: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка записи: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
