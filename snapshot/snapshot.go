package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
	"github.com/xyths/bpx/backpack"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"os"
	"sort"
	"strings"
	"time"
)

const (
	QuoteCurrency  = "USDC"
	collNameAssets = "snapshot"
)

// Exchange is the part of the client a snapshot needs.
type Exchange interface {
	SpotBalance(ctx context.Context) (map[string]decimal.Decimal, error)
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type Snapshot struct {
	Label string
	Sugar *zap.SugaredLogger

	ex  Exchange
	db  *mongo.Database
	now func() time.Time
}

// New returns a snapshot of ex. db may be nil, then nothing is stored in mongo.
func New(label string, ex Exchange, db *mongo.Database, sugar *zap.SugaredLogger) *Snapshot {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return &Snapshot{
		Label: label,
		Sugar: sugar,
		ex:    ex,
		db:    db,
		now:   time.Now,
	}
}

// balance of currency
type Currency struct {
	Exchange string          `json:"exchange" bson:"exchange"`
	Account  string          `json:"account" bson:"account"`
	Currency string          `json:"currency" bson:"currency"`
	Amount   decimal.Decimal `json:"amount" bson:"-"`
	Price    decimal.Decimal `json:"price" bson:"-"`
	Value    decimal.Decimal `json:"value" bson:"-"`
	Time     time.Time       `json:"time" bson:"time"`

	// decimal has no bson codec, store the text
	AmountText string `json:"-" bson:"amount"`
	PriceText  string `json:"-" bson:"price"`
	ValueText  string `json:"-" bson:"value"`
}

// Balance values every asset held in QuoteCurrency. Assets without a market are kept with a
// zero price.
func (s *Snapshot) Balance(ctx context.Context) (currencies []Currency, err error) {
	amounts, err := s.ex.SpotBalance(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for coin, amount := range amounts {
		currency := Currency{
			Exchange: "backpack",
			Account:  s.Label,
			Time:     now,
			Currency: strings.ToUpper(coin),
			Amount:   amount,
		}
		if strings.EqualFold(coin, QuoteCurrency) {
			currency.Price = decimal.NewFromInt(1)
			currency.Value = amount
		} else {
			symbol := backpack.FormatSymbol(coin, QuoteCurrency)
			price, err1 := s.ex.LastPrice(ctx, symbol)
			if err1 != nil {
				s.Sugar.Warnw("get last price failed", "symbol", symbol, "error", err1)
			} else {
				currency.Price = price
				currency.Value = price.Mul(amount)
			}
		}
		currency.AmountText = currency.Amount.String()
		currency.PriceText = currency.Price.String()
		currency.ValueText = currency.Value.String()
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Currency < currencies[j].Currency })
	return currencies, nil
}

// Total sums the value of currencies.
func Total(currencies []Currency) decimal.Decimal {
	total := decimal.Zero
	for _, c := range currencies {
		total = total.Add(c.Value)
	}
	return total
}

// Log appends one json line per currency to output and stores them in mongo if configured.
func (s *Snapshot) Log(ctx context.Context, output string) ([]Currency, error) {
	currencies, err := s.Balance(ctx)
	if err != nil {
		s.Sugar.Errorf("balance error: %s", err)
		return nil, err
	}
	if output != "" {
		if err := s.write(output, currencies); err != nil {
			return currencies, err
		}
	}
	if s.db != nil {
		if err := s.store(ctx, currencies); err != nil {
			return currencies, err
		}
	}
	s.Sugar.Infow("snapshot done", "account", s.Label, "currencies", len(currencies), "total", Total(currencies).String())
	return currencies, nil
}

func (s *Snapshot) write(output string, currencies []Currency) error {
	f, err := os.OpenFile(output, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		s.Sugar.Error(err)
		return err
	}
	defer f.Close()

	for _, c := range currencies {
		b, err := json.Marshal(c)
		if err != nil {
			s.Sugar.Error(err)
			continue
		}
		if _, err := fmt.Fprintf(f, "%s\n", string(b)); err != nil {
			s.Sugar.Error(err)
			return err
		}
	}
	return nil
}

func (s *Snapshot) store(ctx context.Context, currencies []Currency) error {
	if len(currencies) == 0 {
		return nil
	}
	docs := make([]interface{}, len(currencies))
	for i := range currencies {
		docs[i] = currencies[i]
	}
	if _, err := s.db.Collection(collNameAssets).InsertMany(ctx, docs); err != nil {
		s.Sugar.Errorf("insert snapshot error: %s", err)
		return err
	}
	return nil
}
