package backpack

import (
	"context"
	"time"
)

// Status returns the status of the platform.
func (b *Backpack) Status(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := b.get(ctx, pathStatus, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping returns the raw body of the liveness check, "pong" when the platform is up.
func (b *Backpack) Ping(ctx context.Context) (string, error) {
	return b.getText(ctx, pathPing)
}

// ServerTime returns the current time of the platform.
func (b *Backpack) ServerTime(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := b.get(ctx, pathTime, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTrades returns the recent trades of symbol, limit is in [1, MaxTradeLimit].
func (b *Backpack) GetTrades(ctx context.Context, symbol string, limit int) (interface{}, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	var q query
	q.add("symbol", symbol)
	q.add("limit", limit)
	var result interface{}
	if err := b.get(ctx, pathTrades, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetHistoricalTrades returns trades of symbol starting from offset.
func (b *Backpack) GetHistoricalTrades(ctx context.Context, symbol string, limit, offset int) (interface{}, error) {
	q, err := historicalTradesQuery(symbol, limit, offset)
	if err != nil {
		return nil, err
	}
	var result interface{}
	if err := b.get(ctx, pathTradesHistory, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAssets returns all the assets supported by the exchange.
func (b *Backpack) GetAssets(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := b.get(ctx, pathAssets, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetMarkets returns all the markets supported by the exchange.
func (b *Backpack) GetMarkets(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := b.get(ctx, pathMarkets, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTicker returns the 24h statistics of symbol.
func (b *Backpack) GetTicker(ctx context.Context, symbol string) (interface{}, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}
	var q query
	q.add("symbol", symbol)
	var result interface{}
	if err := b.get(ctx, pathTicker, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTickers returns the 24h statistics of all markets.
func (b *Backpack) GetTickers(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := b.get(ctx, pathTickers, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDepth returns the order book of symbol.
func (b *Backpack) GetDepth(ctx context.Context, symbol string) (interface{}, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}
	var q query
	q.add("symbol", symbol)
	var result interface{}
	if err := b.get(ctx, pathDepth, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetKline returns the candlesticks of symbol.
func (b *Backpack) GetKline(ctx context.Context, symbol string, interval KlineInterval) (interface{}, error) {
	return b.GetKlineRange(ctx, symbol, interval, time.Time{}, time.Time{})
}

// GetKlineRange is GetKline limited to [start, end]. Zero times are not sent.
func (b *Backpack) GetKlineRange(ctx context.Context, symbol string, interval KlineInterval, start, end time.Time) (interface{}, error) {
	q, err := klineQuery(symbol, interval, start, end)
	if err != nil {
		return nil, err
	}
	var result interface{}
	if err := b.get(ctx, pathKlines, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func historicalTradesQuery(symbol string, limit, offset int) (query, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, newValidationError("offset", "must not be negative")
	}
	var q query
	q.add("symbol", symbol)
	q.add("limit", limit)
	q.add("offset", offset)
	return q, nil
}

func klineQuery(symbol string, interval KlineInterval, start, end time.Time) (query, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}
	if !interval.Valid() {
		return nil, newValidationError("interval", "unknown kline interval "+string(interval))
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, newValidationError("endTime", "must not be before startTime")
	}
	var q query
	q.add("symbol", symbol)
	q.add("interval", interval)
	if !start.IsZero() {
		q.add("startTime", start.Unix())
	}
	if !end.IsZero() {
		q.add("endTime", end.Unix())
	}
	return q, nil
}

func checkSymbol(symbol string) error {
	if symbol == "" {
		return newValidationError("symbol", "must not be empty")
	}
	return nil
}

func checkLimit(limit int) error {
	if limit < 1 || limit > MaxTradeLimit {
		return newValidationError("limit", "must be between 1 and 1000")
	}
	return nil
}
