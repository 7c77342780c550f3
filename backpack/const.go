package backpack

const DefaultHost = "https://api.backpack.exchange/"

const (
	pathStatus        = "api/v1/status"
	pathPing          = "api/v1/ping"
	pathTime          = "api/v1/time"
	pathTrades        = "api/v1/trades"
	pathTradesHistory = "api/v1/trades/history"
	pathAssets        = "api/v1/assets"
	pathMarkets       = "api/v1/markets"
	pathTicker        = "api/v1/ticker"
	pathTickers       = "api/v1/tickers"
	pathDepth         = "api/v1/depth"
	pathKlines        = "api/v1/klines"
	pathCapital       = "api/v1/capital"
)

// header names
const (
	HeaderContentType = "Content-Type"
	HeaderConnection  = "Connection"
	HeaderAPIKey      = "X-API-KEY"
	HeaderSignature   = "X-SIGNATURE"
	HeaderTimestamp   = "X-TIMESTAMP"
	HeaderWindow      = "X-WINDOW"
)

// instructions of private endpoints
const (
	InstructionBalanceQuery = "balanceQuery"
)

const (
	// DefaultWindow is the signature validity in milliseconds.
	DefaultWindow int64 = 5000

	DefaultTradeLimit  = 100
	MaxTradeLimit      = 1000
	DefaultTradeOffset = 0
)
