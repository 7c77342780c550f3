package node

import (
	"context"
	"github.com/pkg/errors"
	"github.com/xyths/bpx/backpack"
	"github.com/xyths/hs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Node wires the logger, the exchange client and, on demand, the database.
type Node struct {
	config Config

	Sugar *zap.SugaredLogger
	ex    *backpack.Backpack
	db    *mongo.Database
}

func New(cfg Config) *Node {
	return &Node{config: cfg}
}

func (n *Node) Init() error {
	l, err := hs.NewZapLogger(n.config.Log)
	if err != nil {
		l, err = zap.NewProduction()
		if err != nil {
			return err
		}
		l.Sugar().Warn("log config invalid, use default production logger")
	}
	n.Sugar = l.Sugar()
	n.Sugar.Debug("Logger initialized")

	e := n.config.Exchange
	n.ex, err = backpack.New(e.Key, e.Secret, e.Host, n.Sugar)
	if err != nil {
		return err
	}
	n.Sugar.Debugw("exchange initialized", "name", e.Name, "label", e.Label, "host", n.ex.Host)
	return nil
}

func (n *Node) Config() Config {
	return n.config
}

func (n *Node) Exchange() *backpack.Backpack {
	return n.ex
}

// Database connects to mongo on first use.
func (n *Node) Database(ctx context.Context) (*mongo.Database, error) {
	if n.db != nil {
		return n.db, nil
	}
	if n.config.Mongo.URI == "" {
		return nil, errors.New("mongo is not configured")
	}
	db, err := hs.ConnectMongo(ctx, n.config.Mongo)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	n.db = db
	return db, nil
}

func (n *Node) Close(ctx context.Context) {
	if n.db != nil {
		_ = n.db.Client().Disconnect(ctx)
	}
	if n.Sugar != nil {
		_ = n.Sugar.Sync()
	}
}
