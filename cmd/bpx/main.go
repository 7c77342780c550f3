package main

import (
	"context"
	"fmt"
	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"
	"github.com/xyths/bpx/cmd/utils"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

var app *cli.App

func init() {
	app = &cli.App{
		Name:    filepath.Base(os.Args[0]),
		Usage:   "the backpack exchange command line client",
		Version: "0.1.0",
	}

	app.Commands = []*cli.Command{
		statusCommand,
		pingCommand,
		timeCommand,
		assetsCommand,
		marketsCommand,
		tickerCommand,
		tickersCommand,
		depthCommand,
		tradesCommand,
		historicalTradesCommand,
		klinesCommand,
		balancesCommand,
		snapshotCommand,
		historyCommand,
		taCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFlag,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, aurora.Red(err))
		os.Exit(1)
	}
}
