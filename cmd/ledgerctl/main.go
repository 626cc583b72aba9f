// ledgerctl — служебная утилита: выгрузка и восстановление резервных
// копий, генерация демонстрационных данных.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&exportCmd{}, "backup")
	subcommands.Register(&restoreCmd{}, "backup")
	subcommands.Register(&seedCmd{}, "data")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
