package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/pkg/errors"
	"github.com/xyths/bpx/backpack"
	"go.uber.org/zap"
	"io"
	"os"
	"time"
)

const (
	pageSize        = backpack.MaxTradeLimit
	DefaultMaxPages = 10
	DefaultInterval = time.Minute
)

// TradeSource is the part of the client the recorder needs.
type TradeSource interface {
	HistoricalTrades(ctx context.Context, symbol string, limit, offset int) ([]backpack.Trade, error)
}

// History records the public trades of one symbol.
type History struct {
	Symbol   string
	MaxPages int
	Sugar    *zap.SugaredLogger

	ex       TradeSource
	store    Store
	interval time.Duration
}

func New(symbol string, ex TradeSource, store Store, interval time.Duration, sugar *zap.SugaredLogger) *History {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &History{
		Symbol:   symbol,
		MaxPages: DefaultMaxPages,
		Sugar:    sugar,
		ex:       ex,
		store:    store,
		interval: interval,
	}
}

// Pull records new trades every interval until ctx is done.
func (h *History) Pull(ctx context.Context) error {
	if _, err := h.PullOnce(ctx); err != nil {
		h.Sugar.Errorf("error when getHistory: %s", err)
	}

	for {
		select {
		case <-ctx.Done():
			h.Sugar.Info(ctx.Err())
			return nil
		case <-time.After(h.interval):
			if _, err := h.PullOnce(ctx); err != nil {
				h.Sugar.Errorf("error when getHistory: %s", err)
			}
		}
	}
}

type Stat struct {
	All       int
	Success   int
	Duplicate int
	Fail      int
}

// PullOnce pages back from the newest trade until it meets one recorded by an earlier pull, a
// short page or MaxPages. New trades shift the offsets while paging, so a page may start with
// trades inserted by this pull; those are counted as duplicates and paging goes on.
func (h *History) PullOnce(ctx context.Context) (stat Stat, err error) {
	inserted := make(map[string]bool)
	for page := 0; page < h.MaxPages; page++ {
		trades, err := h.ex.HistoricalTrades(ctx, h.Symbol, pageSize, page*pageSize)
		if err != nil {
			return stat, err
		}
		caughtUp := false
		for _, t := range trades {
			stat.All++
			r := NewRecord(h.Symbol, t)
			if inserted[r.Id] {
				stat.Duplicate++
			} else if exists, err := h.store.Exists(ctx, r.Id); err != nil {
				h.Sugar.Errorw("check trade error", "id", r.Id, "error", err)
				stat.Fail++
			} else if exists {
				stat.Duplicate++
				caughtUp = true
			} else if err := h.store.Insert(ctx, r); err != nil {
				h.Sugar.Errorw("insert error", "id", r.Id, "error", err)
				stat.Fail++
			} else {
				inserted[r.Id] = true
				stat.Success++
			}
		}
		if caughtUp || len(trades) < pageSize {
			break
		}
	}
	h.Sugar.Infof("get history for %s finish now, all: %d, success: %d, duplicate: %d, fail: %d",
		h.Symbol, stat.All, stat.Success, stat.Duplicate, stat.Fail)
	return stat, nil
}

// Export writes the recorded trades in [start, end] to csvfile.
func (h *History) Export(ctx context.Context, start, end time.Time, csvfile string) error {
	records, err := h.store.Find(ctx, h.Symbol, start, end)
	if err != nil {
		return errors.Wrap(err, "find trades")
	}
	f, err := os.Create(csvfile)
	if err != nil {
		h.Sugar.Error(err)
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := WriteCsv(f, records); err != nil {
		return err
	}
	h.Sugar.Infof("export %d trades of %s to %s", len(records), h.Symbol, csvfile)
	return nil
}

var csvHeader = []string{"time", "symbol", "side", "price", "quantity", "quoteQuantity", "tradeId"}

func WriteCsv(out io.Writer, records []Record) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		line := []string{
			r.Time.UTC().Format(TimeLayout),
			r.Symbol,
			r.Side,
			r.Price,
			r.Quantity,
			r.QuoteQuantity,
			fmt.Sprintf("%d", r.TradeId),
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
