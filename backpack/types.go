package backpack

import (
	"context"
	"github.com/shopspring/decimal"
	"strings"
	"time"
)

/*
{
    "SOL": {"available": "12.5", "locked": "0", "staked": "1"}
}
*/
type Balance struct {
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
	Staked    decimal.Decimal `json:"staked"`
}

func (b Balance) Total() decimal.Decimal {
	return b.Available.Add(b.Locked).Add(b.Staked)
}

type Ticker struct {
	Symbol             string          `json:"symbol"`
	FirstPrice         decimal.Decimal `json:"firstPrice"`
	LastPrice          decimal.Decimal `json:"lastPrice"`
	PriceChange        decimal.Decimal `json:"priceChange"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
	High               decimal.Decimal `json:"high"`
	Low                decimal.Decimal `json:"low"`
	Volume             decimal.Decimal `json:"volume"`
	QuoteVolume        decimal.Decimal `json:"quoteVolume"`
	Trades             string          `json:"trades"`
}

type Trade struct {
	Id            int64           `json:"id"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	QuoteQuantity decimal.Decimal `json:"quoteQuantity"`
	Timestamp     int64           `json:"timestamp"` // ms
	IsBuyerMaker  bool            `json:"isBuyerMaker"`
}

func (t Trade) Time() time.Time {
	return time.Unix(0, t.Timestamp*int64(time.Millisecond))
}

type Kline struct {
	Start  string          `json:"start"`
	End    string          `json:"end"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
	Trades string          `json:"trades"`
}

// Ticker is GetTicker decoded.
func (b *Backpack) Ticker(ctx context.Context, symbol string) (*Ticker, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}
	var q query
	q.add("symbol", symbol)
	var t Ticker
	if err := b.get(ctx, pathTicker, q, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (b *Backpack) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	t, err := b.Ticker(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return t.LastPrice, nil
}

// HistoricalTrades is GetHistoricalTrades decoded.
func (b *Backpack) HistoricalTrades(ctx context.Context, symbol string, limit, offset int) ([]Trade, error) {
	q, err := historicalTradesQuery(symbol, limit, offset)
	if err != nil {
		return nil, err
	}
	var trades []Trade
	if err := b.get(ctx, pathTradesHistory, q, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// Candles is GetKlineRange decoded.
func (b *Backpack) Candles(ctx context.Context, symbol string, interval KlineInterval, start, end time.Time) ([]Kline, error) {
	q, err := klineQuery(symbol, interval, start, end)
	if err != nil {
		return nil, err
	}
	var klines []Kline
	if err := b.get(ctx, pathKlines, q, &klines); err != nil {
		return nil, err
	}
	return klines, nil
}

// FormatSymbol returns the market symbol of base quoted in quote, e.g. SOL_USDC.
func FormatSymbol(base, quote string) string {
	return strings.ToUpper(base) + "_" + strings.ToUpper(quote)
}
