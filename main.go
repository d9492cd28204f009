package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/nvkalinin/html-calendar/cmd"
	"github.com/nvkalinin/html-calendar/log"
)

type CLI struct {
	Debug bool `short:"d" long:"debug" env:"DEBUG" description:"Выводить отладочные сообщения в лог."`

	Server cmd.ServerCmd `command:"server" description:"Запустить сервер (rest + периодическое обновление заметок)."`
	Sync   cmd.SyncCmd   `command:"sync" description:"Пересобрать заметки календаря за указанный год."`
	Backup cmd.BackupCmd `command:"backup" description:"Сделать резервную копию хранилища bolt."`
}

func main() {
	cli := &CLI{}
	parser := flags.NewParser(cli, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.AllowDebug = cli.Debug

		if cmd != nil {
			return cmd.Execute(args)
		}
		return nil
	}

	if _, err := parser.Parse(); err != nil {
		flagsErr, isFlagsErr := err.(flags.ErrorType)
		if isFlagsErr && flagsErr == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
