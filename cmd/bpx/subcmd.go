package main

import (
	"encoding/json"
	"fmt"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/xyths/bpx/backpack"
	"github.com/xyths/bpx/cmd/utils"
	"github.com/xyths/bpx/snapshot"
	"os"
)

var (
	statusCommand = &cli.Command{
		Action: status,
		Name:   "status",
		Usage:  "Show the exchange status",
	}
	pingCommand = &cli.Command{
		Action: ping,
		Name:   "ping",
		Usage:  "Ping the exchange",
	}
	timeCommand = &cli.Command{
		Action: serverTime,
		Name:   "time",
		Usage:  "Show the server time",
	}
	assetsCommand = &cli.Command{
		Action: assets,
		Name:   "assets",
		Usage:  "List the assets",
	}
	marketsCommand = &cli.Command{
		Action: markets,
		Name:   "markets",
		Usage:  "List the markets",
	}
	tickerCommand = &cli.Command{
		Action:    ticker,
		Name:      "ticker",
		Usage:     "Show the 24h ticker of a market",
		ArgsUsage: "SYMBOL",
	}
	tickersCommand = &cli.Command{
		Action: tickers,
		Name:   "tickers",
		Usage:  "Show the 24h tickers of all markets",
	}
	depthCommand = &cli.Command{
		Action:    depth,
		Name:      "depth",
		Usage:     "Show the order book of a market",
		ArgsUsage: "SYMBOL",
	}
	tradesCommand = &cli.Command{
		Action:    trades,
		Name:      "trades",
		Usage:     "Show the recent trades of a market",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			utils.LimitFlag,
		},
	}
	historicalTradesCommand = &cli.Command{
		Action:    historicalTrades,
		Name:      "historical-trades",
		Usage:     "Show the older trades of a market",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			utils.LimitFlag,
			utils.OffsetFlag,
		},
	}
	klinesCommand = &cli.Command{
		Action:    klines,
		Name:      "klines",
		Usage:     "Show the candlesticks of a market",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			utils.IntervalFlag,
			utils.StartTimeFlag,
			utils.EndTimeFlag,
		},
	}
	balancesCommand = &cli.Command{
		Action: balances,
		Name:   "balances",
		Usage:  "Show the account balances, needs the api secret",
	}
	snapshotCommand = &cli.Command{
		Action: snapshotAction,
		Name:   "snapshot",
		Usage:  "Snapshot the asset",
		Flags: []cli.Flag{
			utils.LabelFlag,
			utils.OutputFlag,
		},
	}
	historyCommand = &cli.Command{
		Name:  "history",
		Usage: "Manage public trade history",
		Subcommands: []*cli.Command{
			{
				Action:    pull,
				Name:      "pull",
				Usage:     "Pull trade history from exchange into mongo",
				ArgsUsage: "SYMBOL",
			},
			{
				Action:    export,
				Name:      "export",
				Usage:     "Export trade history to csv",
				ArgsUsage: "SYMBOL",
				Flags: []cli.Flag{
					utils.StartTimeFlag,
					utils.EndTimeFlag,
					utils.CsvFlag,
				},
			},
		},
	}
	taCommand = &cli.Command{
		Name:  "ta",
		Usage: "Technical analysis",
		Subcommands: []*cli.Command{
			{
				Action:    natr,
				Name:      "natr",
				Usage:     "Normalized average true range of markets",
				ArgsUsage: "[SYMBOL...]",
				Flags: []cli.Flag{
					utils.IntervalFlag,
					utils.StartTimeFlag,
					utils.EndTimeFlag,
					utils.CsvFlag,
				},
			},
		},
	}
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func symbolArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() < 1 {
		return "", errors.New("missing SYMBOL argument")
	}
	return ctx.Args().First(), nil
}

// run calls the exchange and prints the result.
func run(ctx *cli.Context, call func(ex *backpack.Backpack) (interface{}, error)) error {
	n, err := utils.GetNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close(ctx.Context)
	result, err := call(n.Exchange())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func status(ctx *cli.Context) error {
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.Status(ctx.Context)
	})
}

func ping(ctx *cli.Context) error {
	n, err := utils.GetNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close(ctx.Context)
	pong, err := n.Exchange().Ping(ctx.Context)
	if err != nil {
		return err
	}
	fmt.Println(aurora.Green(pong))
	return nil
}

func serverTime(ctx *cli.Context) error {
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.ServerTime(ctx.Context)
	})
}

func assets(ctx *cli.Context) error {
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetAssets(ctx.Context)
	})
}

func markets(ctx *cli.Context) error {
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetMarkets(ctx.Context)
	})
}

func ticker(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetTicker(ctx.Context, symbol)
	})
}

func tickers(ctx *cli.Context) error {
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetTickers(ctx.Context)
	})
}

func depth(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetDepth(ctx.Context, symbol)
	})
}

func trades(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	limit := ctx.Int(utils.LimitFlag.Name)
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetTrades(ctx.Context, symbol, limit)
	})
}

func historicalTrades(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	limit := ctx.Int(utils.LimitFlag.Name)
	offset := ctx.Int(utils.OffsetFlag.Name)
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetHistoricalTrades(ctx.Context, symbol, limit, offset)
	})
}

func klines(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	interval, err := backpack.ParseKlineInterval(ctx.String(utils.IntervalFlag.Name))
	if err != nil {
		return err
	}
	start, end, err := utils.ParseOptionalStartEndTime(ctx.String(utils.StartTimeFlag.Name), ctx.String(utils.EndTimeFlag.Name))
	if err != nil {
		return err
	}
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetKlineRange(ctx.Context, symbol, interval, start, end)
	})
}

func balances(ctx *cli.Context) error {
	return run(ctx, func(ex *backpack.Backpack) (interface{}, error) {
		return ex.GetBalances(ctx.Context)
	})
}

func snapshotAction(ctx *cli.Context) error {
	n, err := utils.GetNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close(ctx.Context)
	currencies, err := n.Snapshot(ctx.Context, ctx.String(utils.LabelFlag.Name), ctx.String(utils.OutputFlag.Name))
	if err != nil {
		return err
	}
	for _, c := range currencies {
		fmt.Printf("%-8s %20s %16s %20s\n", c.Currency, c.Amount, c.Price, c.Value)
	}
	fmt.Println(aurora.Bold(fmt.Sprintf("total value: %s USDC", snapshot.Total(currencies))))
	return nil
}

func pull(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	n, err := utils.GetNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close(ctx.Context)
	return n.PullHistory(ctx.Context, symbol)
}

func export(ctx *cli.Context) error {
	symbol, err := symbolArg(ctx)
	if err != nil {
		return err
	}
	start, end, err := utils.ParseStartEndTime(ctx.String(utils.StartTimeFlag.Name), ctx.String(utils.EndTimeFlag.Name))
	if err != nil {
		return err
	}
	csv := ctx.String(utils.CsvFlag.Name)
	if csv == "" {
		return errors.New("csv file is required")
	}
	n, err := utils.GetNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close(ctx.Context)
	return n.ExportHistory(ctx.Context, symbol, start, end, csv)
}

func natr(ctx *cli.Context) error {
	start, end, err := utils.ParseOptionalStartEndTime(ctx.String(utils.StartTimeFlag.Name), ctx.String(utils.EndTimeFlag.Name))
	if err != nil {
		return err
	}
	n, err := utils.GetNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close(ctx.Context)
	return n.NATR(ctx.Context, ctx.Args().Slice(), ctx.String(utils.IntervalFlag.Name), start, end, ctx.String(utils.CsvFlag.Name))
}
