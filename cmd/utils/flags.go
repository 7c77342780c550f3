package utils

import (
	"github.com/urfave/cli/v2"
	"github.com/xyths/bpx/backpack"
)

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.json",
		Usage:   "load configuration from `file`",
	}
	LabelFlag = &cli.StringFlag{
		Name:    "label",
		Aliases: []string{"l"},
		Usage:   "account `label`, default to the one in config",
	}
	StartTimeFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Value:   "",
		Usage:   "start `time`",
	}
	EndTimeFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Value:   "",
		Usage:   "end `time`",
	}
	CsvFlag = &cli.StringFlag{
		Name:  "csv",
		Value: "",
		Usage: "output csv `file`",
	}
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "append snapshot to `file`",
	}
	LimitFlag = &cli.IntFlag{
		Name:  "limit",
		Value: backpack.DefaultTradeLimit,
		Usage: "max number of trades, 1 to 1000",
	}
	OffsetFlag = &cli.IntFlag{
		Name:  "offset",
		Value: backpack.DefaultTradeOffset,
		Usage: "skip the newest `n` trades",
	}
	IntervalFlag = &cli.StringFlag{
		Name:    "interval",
		Aliases: []string{"i"},
		Value:   string(backpack.OneHour),
		Usage:   "kline `interval`, 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1month",
	}
)
