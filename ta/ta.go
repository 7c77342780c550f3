package ta

import (
	"context"
	"github.com/pkg/errors"
	"github.com/xyths/bpx/backpack"
	"github.com/xyths/bpx/ta/natr"
	"go.uber.org/zap"
	"os"
	"strings"
	"time"
)

type Exchange interface {
	natr.CandleSource
	GetMarkets(ctx context.Context) (interface{}, error)
}

type Agent struct {
	Sugar   *zap.SugaredLogger
	ex      Exchange
	symbols []string
}

// NewAgent returns an agent over ex. symbols are the default symbols from the config file.
func NewAgent(ex Exchange, symbols []string, sugar *zap.SugaredLogger) *Agent {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return &Agent{
		Sugar:   sugar,
		ex:      ex,
		symbols: symbols,
	}
}

func (a *Agent) NATR(ctx context.Context, symbols []string, interval backpack.KlineInterval, start, end time.Time, output string) error {
	symbols, err := a.fillSymbols(ctx, symbols)
	if err != nil {
		return err
	}
	r, skipped, err := natr.NATR(ctx, a.ex, symbols, interval, start, end)
	if err != nil {
		a.Sugar.Errorf("get natr error: %s", err)
		return err
	}
	if len(skipped) > 0 {
		a.Sugar.Warnf("not enough candles for %v", skipped)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	return natr.WriteToCsv(r, f)
}

func (a *Agent) fillSymbols(ctx context.Context, symbols []string) ([]string, error) {
	// if no symbols, use all symbols available in the exchange
	if len(symbols) > 0 {
		return symbols, nil
	}
	a.Sugar.Info("no symbols in command line")
	if len(a.symbols) > 0 {
		a.Sugar.Infof("get symbols from config: %v", a.symbols)
		return a.symbols, nil
	}
	a.Sugar.Info("use all symbols from exchange online")
	return a.allSymbols(ctx)
}

// allSymbols returns the spot markets quoted in USDC.
func (a *Agent) allSymbols(ctx context.Context) ([]string, error) {
	markets, err := a.ex.GetMarkets(ctx)
	if err != nil {
		return nil, err
	}
	list, ok := markets.([]interface{})
	if !ok {
		return nil, errors.Errorf("unexpected markets response %T", markets)
	}
	var ret []string
	for _, m := range list {
		market, ok := m.(map[string]interface{})
		if !ok {
			continue
		}
		symbol, _ := market["symbol"].(string)
		if strings.HasSuffix(symbol, "_USDC") {
			ret = append(ret, symbol)
		}
	}
	return ret, nil
}
