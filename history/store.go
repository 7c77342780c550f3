package history

import (
	"context"
	"fmt"
	"github.com/xyths/bpx/backpack"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

const (
	collNameHistory = "history"
	TimeLayout      = "2006-01-02 15:04:05.000"
)

// Record is a public trade as stored in mongo.
type Record struct {
	Id            string    `bson:"_id"`
	TradeId       int64     `bson:"tradeId"`
	Symbol        string    `bson:"symbol"`
	Side          string    `bson:"side"` // taker side
	Price         string    `bson:"price"`
	Quantity      string    `bson:"quantity"`
	QuoteQuantity string    `bson:"quoteQuantity"`
	Time          time.Time `bson:"time"`
}

func NewRecord(symbol string, t backpack.Trade) Record {
	side := "buy"
	if t.IsBuyerMaker {
		side = "sell"
	}
	return Record{
		Id:            fmt.Sprintf("%s-%d", symbol, t.Id),
		TradeId:       t.Id,
		Symbol:        symbol,
		Side:          side,
		Price:         t.Price.String(),
		Quantity:      t.Quantity.String(),
		QuoteQuantity: t.QuoteQuantity.String(),
		Time:          t.Time(),
	}
}

type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, r Record) error
	// Find returns the records of symbol in [start, end] ordered by time.
	Find(ctx context.Context, symbol string, start, end time.Time) ([]Record, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collNameHistory)}
}

func (s *MongoStore) Exists(ctx context.Context, id string) (bool, error) {
	c, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (s *MongoStore) Insert(ctx context.Context, r Record) error {
	_, err := s.coll.InsertOne(ctx, &r)
	if isDuplicateError(err) {
		return nil
	}
	return err
}

func (s *MongoStore) Find(ctx context.Context, symbol string, start, end time.Time) (records []Record, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{
		{Key: "symbol", Value: symbol},
		{Key: "time", Value: bson.D{
			{Key: "$gte", Value: start},
			{Key: "$lte", Value: end},
		}},
	}, opts)
	if err != nil {
		return
	}
	err = cursor.All(ctx, &records)
	return
}

func isDuplicateError(err error) bool {
	e, ok := err.(mongo.WriteException)
	if !ok {
		return false
	}
	if e.WriteConcernError == nil && len(e.WriteErrors) == 1 && e.WriteErrors[0].Code == 11000 {
		return true
	}
	return false
}
