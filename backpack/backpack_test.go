package backpack

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const testApiKey = "test-public-key"

type recorded struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (r *recorded) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recorded) last() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[len(r.requests)-1]
}

// newStub serves body with status for every request and records them.
func newStub(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, host string) (*Backpack, ed25519.PublicKey, string) {
	t.Helper()
	pub, pemKey := newTestKey(t)
	b, err := New(testApiKey, pemKey, host, nil)
	require.NoError(t, err)
	return b, pub, pemKey
}

func TestNew_BadKey(t *testing.T) {
	_, err := New(testApiKey, "garbage", "", nil)
	var ke *KeyLoadError
	require.True(t, errors.As(err, &ke))
}

func TestNew_DefaultHost(t *testing.T) {
	b, err := New("", "", "", nil)
	require.NoError(t, err)
	require.Equal(t, DefaultHost, b.Host)
	require.Equal(t, "https://api.backpack.exchange/api/v1/trades?symbol=SOL_USDC&limit=100",
		b.url(pathTrades, query{"symbol=SOL_USDC", "limit=100"}))
}

func TestBackpack_PublicHeaders(t *testing.T) {
	b, err := New("", "", "", nil)
	require.NoError(t, err)
	h := b.header()
	require.Equal(t, "application/json", h.Get(HeaderContentType))
	require.Equal(t, "keep-alive", h.Get(HeaderConnection))
	require.Empty(t, h.Get(HeaderAPIKey))
	require.Empty(t, h.Get(HeaderSignature))
}

func TestBackpack_Status(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `{"status":"Ok","message":null}`)
	b, _, _ := newTestClient(t, srv.URL)

	status, err := b.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"status": "Ok", "message": nil}, status)

	req := rec.last()
	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, "/api/v1/status", req.URL.Path)
	require.Equal(t, "application/json", req.Header.Get(HeaderContentType))
	require.Empty(t, req.Header.Get(HeaderAPIKey))
	require.Empty(t, req.Header.Get(HeaderSignature))
}

func TestBackpack_Ping(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, "pong")
	b, _, _ := newTestClient(t, srv.URL)

	pong, err := b.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pong", pong)
	require.Equal(t, "/api/v1/ping", rec.last().URL.Path)
}

func TestBackpack_ServerTime(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, `1700000000123`)
	b, _, _ := newTestClient(t, srv.URL)

	v, err := b.ServerTime(context.Background())
	require.NoError(t, err)
	require.Equal(t, json.Number("1700000000123"), v)
}

func TestBackpack_Queries(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `[]`)
	b, _, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() (interface{}, error)
		path  string
		query string
	}{
		{"trades", func() (interface{}, error) { return b.GetTrades(ctx, "SOL_USDC", 100) }, "/api/v1/trades", "symbol=SOL_USDC&limit=100"},
		{"history", func() (interface{}, error) { return b.GetHistoricalTrades(ctx, "SOL_USDC", 1000, 20) }, "/api/v1/trades/history", "symbol=SOL_USDC&limit=1000&offset=20"},
		{"assets", func() (interface{}, error) { return b.GetAssets(ctx) }, "/api/v1/assets", ""},
		{"markets", func() (interface{}, error) { return b.GetMarkets(ctx) }, "/api/v1/markets", ""},
		{"ticker", func() (interface{}, error) { return b.GetTicker(ctx, "SOL_USDC") }, "/api/v1/ticker", "symbol=SOL_USDC"},
		{"tickers", func() (interface{}, error) { return b.GetTickers(ctx) }, "/api/v1/tickers", ""},
		{"depth", func() (interface{}, error) { return b.GetDepth(ctx, "BTC_USDC") }, "/api/v1/depth", "symbol=BTC_USDC"},
		{"kline", func() (interface{}, error) { return b.GetKline(ctx, "SOL_USDC", OneMonth) }, "/api/v1/klines", "symbol=SOL_USDC&interval=1month"},
		{"kline range", func() (interface{}, error) {
			return b.GetKlineRange(ctx, "SOL_USDC", OneHour, time.Unix(1700000000, 0), time.Unix(1700003600, 0))
		}, "/api/v1/klines", "symbol=SOL_USDC&interval=1h&startTime=1700000000&endTime=1700003600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.call()
			require.NoError(t, err)
			require.Equal(t, []interface{}{}, v)
			req := rec.last()
			require.Equal(t, tt.path, req.URL.Path)
			require.Equal(t, tt.query, req.URL.RawQuery)
		})
	}
}

func TestBackpack_QueryEscaping(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `{}`)
	b, _, _ := newTestClient(t, srv.URL)

	_, err := b.GetTicker(context.Background(), "A&B=C")
	require.NoError(t, err)
	req := rec.last()
	require.Equal(t, "symbol=A%26B%3DC", req.URL.RawQuery)
	require.Equal(t, "A&B=C", req.URL.Query().Get("symbol"))
}

func TestBackpack_Validation(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `[]`)
	b, _, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	calls := map[string]func() error{
		"empty symbol":     func() error { _, err := b.GetTrades(ctx, "", 100); return err },
		"limit zero":       func() error { _, err := b.GetTrades(ctx, "SOL_USDC", 0); return err },
		"limit too big":    func() error { _, err := b.GetTrades(ctx, "SOL_USDC", 1001); return err },
		"history limit":    func() error { _, err := b.GetHistoricalTrades(ctx, "SOL_USDC", 1001, 0); return err },
		"history negative": func() error { _, err := b.GetHistoricalTrades(ctx, "SOL_USDC", 100, -1); return err },
		"ticker symbol":    func() error { _, err := b.GetTicker(ctx, ""); return err },
		"depth symbol":     func() error { _, err := b.GetDepth(ctx, ""); return err },
		"kline interval":   func() error { _, err := b.GetKline(ctx, "SOL_USDC", KlineInterval("2m")); return err },
		"kline month":      func() error { _, err := b.GetKline(ctx, "SOL_USDC", KlineInterval("1M")); return err },
		"kline range": func() error {
			_, err := b.GetKlineRange(ctx, "SOL_USDC", OneDay, time.Unix(2, 0), time.Unix(1, 0))
			return err
		},
	}
	for name, call := range calls {
		err := call()
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "%s: %v", name, err)
	}
	require.Empty(t, rec.requests, "validation must fail before any request")
}

func TestBackpack_HTTPStatusError(t *testing.T) {
	srv, _ := newStub(t, http.StatusBadRequest, `{"code":"INVALID_CLIENT_REQUEST","message":"Invalid symbol"}`)
	b, _, _ := newTestClient(t, srv.URL)

	v, err := b.GetTicker(context.Background(), "NOPE")
	require.Nil(t, v)
	var he *HTTPStatusError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusBadRequest, he.StatusCode)
	require.Equal(t, "INVALID_CLIENT_REQUEST", he.Code)
	require.Equal(t, "Invalid symbol", he.Message)
	require.Contains(t, string(he.Body), "Invalid symbol")
}

func TestBackpack_HTTPStatusError_Ping(t *testing.T) {
	srv, _ := newStub(t, http.StatusServiceUnavailable, "maintenance")
	b, _, _ := newTestClient(t, srv.URL)

	pong, err := b.Ping(context.Background())
	require.Empty(t, pong)
	var he *HTTPStatusError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusServiceUnavailable, he.StatusCode)
	require.Empty(t, he.Code)
	require.Equal(t, "maintenance", string(he.Body))
}

func TestBackpack_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := srv.URL
	srv.Close()

	b, _, _ := newTestClient(t, host)
	_, err := b.Status(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, http.MethodGet, te.Method)
}

func TestBackpack_CancelledContext(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, `{}`)
	b, _, _ := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.GetAssets(ctx)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestBackpack_DecodeError(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `not json`,
		"trailing html": `{"status":"Ok"}<html>proxy error</html>`,
		"two values":    `{"status":"Ok"} {"status":"Ok"}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := newStub(t, http.StatusOK, body)
			b, _, _ := newTestClient(t, srv.URL)

			v, err := b.Status(context.Background())
			require.Nil(t, v)
			require.Error(t, err)
			var he *HTTPStatusError
			require.False(t, errors.As(err, &he))
		})
	}
}

func TestBackpack_DecodeTrailingSpace(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, "{\"status\":\"Ok\"}\n")
	b, _, _ := newTestClient(t, srv.URL)

	v, err := b.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"status": "Ok"}, v)
}

func TestBackpack_GetBalances(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `{"SOL":{"available":"1.5","locked":"0","staked":"0"}}`)
	b, pub, pemKey := newTestClient(t, srv.URL)
	now := time.Unix(1700000000, 123*int64(time.Millisecond))
	b.now = func() time.Time { return now }

	v, err := b.GetBalances(context.Background())
	require.NoError(t, err)
	require.Contains(t, v, "SOL")

	req := rec.last()
	require.Equal(t, "/api/v1/capital", req.URL.Path)
	require.Empty(t, req.URL.RawQuery)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte(testApiKey)), req.Header.Get(HeaderAPIKey))
	require.Equal(t, "1700000000123", req.Header.Get(HeaderTimestamp))
	require.Equal(t, "5000", req.Header.Get(HeaderWindow))

	// the signature must verify over the header timestamp
	ts, err := strconv.ParseInt(req.Header.Get(HeaderTimestamp), 10, 64)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(req.Header.Get(HeaderSignature))
	require.NoError(t, err)
	msg := CanonicalString(InstructionBalanceQuery, "", ts, DefaultWindow)
	require.Equal(t, "instruction=balanceQuery&timestamp=1700000000123&window=5000", msg)
	require.True(t, ed25519.Verify(pub, []byte(msg), raw))

	// the private key never leaves the signer
	body := strings.Split(strings.TrimSpace(pemKey), "\n")[1]
	for name, values := range req.Header {
		for _, value := range values {
			require.NotContains(t, value, body, name)
		}
	}
	require.NotContains(t, req.URL.String(), body)
	require.NotContains(t, req.URL.String(), testApiKey)
}

func TestBackpack_GetBalances_ClockAdvances(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `{}`)
	b, pub, _ := newTestClient(t, srv.URL)
	require.NoError(t, b.SetWindow(60000))

	ticks := int64(1700000000000)
	b.now = func() time.Time {
		ticks += 7
		return time.Unix(0, ticks*int64(time.Millisecond))
	}

	for i := 0; i < 3; i++ {
		_, err := b.GetBalances(context.Background())
		require.NoError(t, err)
		req := rec.last()
		ts, err := strconv.ParseInt(req.Header.Get(HeaderTimestamp), 10, 64)
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(req.Header.Get(HeaderSignature))
		require.NoError(t, err)
		msg := CanonicalString(InstructionBalanceQuery, "", ts, 60000)
		require.True(t, ed25519.Verify(pub, []byte(msg), raw), "call %d", i)
		require.Equal(t, "60000", req.Header.Get(HeaderWindow))
	}
}

func TestBackpack_GetBalances_NoKey(t *testing.T) {
	srv, rec := newStub(t, http.StatusOK, `{}`)
	b, err := New(testApiKey, "", srv.URL, nil)
	require.NoError(t, err)

	_, err = b.GetBalances(context.Background())
	var ke *KeyLoadError
	require.True(t, errors.As(err, &ke))
	require.True(t, errors.Is(err, ErrNoPrivateKey))
	require.Empty(t, rec.requests)
}

func TestBackpack_GetBalances_Unauthorized(t *testing.T) {
	srv, _ := newStub(t, http.StatusUnauthorized, `{"code":"INVALID_SIGNATURE","message":"Invalid signature"}`)
	b, _, _ := newTestClient(t, srv.URL)

	v, err := b.GetBalances(context.Background())
	require.Nil(t, v)
	var he *HTTPStatusError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusUnauthorized, he.StatusCode)
	require.Equal(t, "INVALID_SIGNATURE", he.Code)
}

func TestBackpack_SetWindow(t *testing.T) {
	b, err := New("", "", "", nil)
	require.NoError(t, err)
	var ve *ValidationError
	require.True(t, errors.As(b.SetWindow(0), &ve))
	require.NoError(t, b.SetWindow(10000))
}

func TestBackpack_Concurrent(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, `{}`)
	b, _, _ := newTestClient(t, srv.URL)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.GetBalances(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
