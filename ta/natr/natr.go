package natr

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/markcheno/go-talib"
	"github.com/pkg/errors"
	"github.com/xyths/bpx/backpack"
	"io"
	"sort"
	"time"
)

const Period = 14

type CandleSource interface {
	Candles(ctx context.Context, symbol string, interval backpack.KlineInterval, start, end time.Time) ([]backpack.Kline, error)
}

type Series struct {
	Symbol    string
	Timestamp []string
	Natr      []float64
}

type NatrResult struct {
	Series []Series
}

// NATR computes the normalized average true range of every symbol. Symbols with too few candles
// are skipped.
func NATR(ctx context.Context, ex CandleSource, symbols []string, interval backpack.KlineInterval, start, end time.Time) (r NatrResult, skipped []string, err error) {
	for _, symbol := range symbols {
		klines, err := ex.Candles(ctx, symbol, interval, start, end)
		if err != nil {
			return r, skipped, errors.Wrapf(err, "candles of %s", symbol)
		}
		if len(klines) <= Period {
			skipped = append(skipped, symbol)
			continue
		}
		r.Series = append(r.Series, Compute(symbol, klines))
	}
	return r, skipped, nil
}

// Compute runs talib.Natr over klines, which must hold more than Period candles.
func Compute(symbol string, klines []backpack.Kline) Series {
	n := len(klines)
	high := make([]float64, n)
	low := make([]float64, n)
	cls := make([]float64, n)
	s := Series{Symbol: symbol, Timestamp: make([]string, n)}
	for i, k := range klines {
		high[i], _ = k.High.Float64()
		low[i], _ = k.Low.Float64()
		cls[i], _ = k.Close.Float64()
		s.Timestamp[i] = k.Start
	}
	s.Natr = talib.Natr(high, low, cls, Period)
	return s
}

// WriteToCsv writes one row per candle start and one column per symbol. Before the warm up
// period and for missing candles the cell is empty.
func WriteToCsv(r NatrResult, out io.Writer) error {
	w := csv.NewWriter(out)

	header := []string{"timestamp"}
	values := make([]map[string]float64, len(r.Series))
	seen := make(map[string]bool)
	var timestamps []string
	for i, s := range r.Series {
		header = append(header, s.Symbol)
		values[i] = make(map[string]float64)
		for j, ts := range s.Timestamp {
			if j >= Period {
				values[i][ts] = s.Natr[j]
			}
			if !seen[ts] {
				seen[ts] = true
				timestamps = append(timestamps, ts)
			}
		}
	}
	sort.Strings(timestamps)

	if err := w.Write(header); err != nil {
		return err
	}
	for _, ts := range timestamps {
		line := []string{ts}
		for i := range r.Series {
			if v, ok := values[i][ts]; ok {
				line = append(line, fmt.Sprintf("%f", v))
			} else {
				line = append(line, "")
			}
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
