package node

import (
	"context"
	"github.com/pkg/errors"
	"github.com/xyths/bpx/backpack"
	"github.com/xyths/bpx/history"
	"github.com/xyths/bpx/snapshot"
	"github.com/xyths/bpx/ta"
	"time"
)

const defaultOutput = "snapshot.log"

func (n *Node) historyInterval() time.Duration {
	if n.config.History.Interval == "" {
		return history.DefaultInterval
	}
	d, err := time.ParseDuration(n.config.History.Interval)
	if err != nil {
		n.Sugar.Warnf("parse duration error: %s, use default %s", err, history.DefaultInterval)
		return history.DefaultInterval
	}
	return d
}

func (n *Node) history(ctx context.Context, symbol string) (*history.History, error) {
	db, err := n.Database(ctx)
	if err != nil {
		return nil, err
	}
	return history.New(symbol, n.ex, history.NewMongoStore(db), n.historyInterval(), n.Sugar), nil
}

// PullHistory records the public trades of symbol until ctx is done.
func (n *Node) PullHistory(ctx context.Context, symbol string) error {
	h, err := n.history(ctx, symbol)
	if err != nil {
		return err
	}
	return h.Pull(ctx)
}

func (n *Node) ExportHistory(ctx context.Context, symbol string, start, end time.Time, csvfile string) error {
	h, err := n.history(ctx, symbol)
	if err != nil {
		return err
	}
	return h.Export(ctx, start, end, csvfile)
}

// Snapshot values the account in USDC and appends it to output. Mongo is used when configured.
func (n *Node) Snapshot(ctx context.Context, label, output string) ([]snapshot.Currency, error) {
	if label == "" {
		label = n.config.Exchange.Label
	}
	if output == "" {
		output = n.config.Output
	}
	if output == "" {
		output = defaultOutput
	}
	var s *snapshot.Snapshot
	if n.config.Mongo.URI != "" {
		db, err := n.Database(ctx)
		if err != nil {
			return nil, err
		}
		s = snapshot.New(label, n.ex, db, n.Sugar)
	} else {
		s = snapshot.New(label, n.ex, nil, n.Sugar)
	}
	return s.Log(ctx, output)
}

func (n *Node) NATR(ctx context.Context, symbols []string, interval string, start, end time.Time, csvfile string) error {
	i, err := backpack.ParseKlineInterval(interval)
	if err != nil {
		return err
	}
	if csvfile == "" {
		return errors.New("csv file is required")
	}
	a := ta.NewAgent(n.ex, n.config.Exchange.Symbols, n.Sugar)
	return a.NATR(ctx, symbols, i, start, end, csvfile)
}
