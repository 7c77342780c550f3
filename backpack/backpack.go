package backpack

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Backpack is a REST client of the Backpack exchange.
// Configure it with SetHTTPClient and SetWindow before the first call; after that it is safe for
// concurrent use.
type Backpack struct {
	Host string

	apiKey string
	signer *Signer
	window int64

	client *http.Client
	now    func() time.Time
	Sugar  *zap.SugaredLogger
}

// New creates a client. key is the api (public) key and secret the PEM encoded private key;
// both may be empty for a client that only calls public endpoints. host defaults to DefaultHost.
func New(key, secret, host string, sugar *zap.SugaredLogger) (*Backpack, error) {
	if host == "" {
		host = DefaultHost
	}
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	b := &Backpack{
		Host:   host,
		apiKey: key,
		window: DefaultWindow,
		client: &http.Client{},
		now:    time.Now,
		Sugar:  sugar,
	}
	if secret != "" {
		signer, err := NewSigner(secret)
		if err != nil {
			return nil, err
		}
		b.signer = signer
	}
	return b, nil
}

// SetHTTPClient replaces the underlying http client, e.g. to set a timeout or a proxy.
func (b *Backpack) SetHTTPClient(c *http.Client) {
	if c != nil {
		b.client = c
	}
}

// SetWindow changes the signature window in milliseconds.
func (b *Backpack) SetWindow(window int64) error {
	if window <= 0 {
		return newValidationError("window", "must be positive")
	}
	b.window = window
	return nil
}

// query is an ordered list of encoded key=value fragments.
type query []string

func (q *query) add(key string, value interface{}) {
	*q = append(*q, url.QueryEscape(key)+"="+url.QueryEscape(fmt.Sprint(value)))
}

func (q query) encode() string {
	return strings.Join(q, "&")
}

func (b *Backpack) url(path string, q query) string {
	u := b.Host + path
	if len(q) > 0 {
		u += "?" + q.encode()
	}
	return u
}

func (b *Backpack) header() http.Header {
	h := http.Header{}
	h.Set(HeaderContentType, "application/json")
	h.Set(HeaderConnection, "keep-alive")
	return h
}

func (b *Backpack) headerPrivate(sig *Signature) http.Header {
	h := b.header()
	h.Set(HeaderAPIKey, base64.StdEncoding.EncodeToString([]byte(b.apiKey)))
	h.Set(HeaderSignature, sig.Signature)
	h.Set(HeaderTimestamp, strconv.FormatInt(sig.Timestamp, 10))
	h.Set(HeaderWindow, strconv.FormatInt(sig.Window, 10))
	return h
}

// get requests a public endpoint and decodes the JSON body into result.
func (b *Backpack) get(ctx context.Context, path string, q query, result interface{}) error {
	data, err := b.do(ctx, b.url(path, q), b.header())
	if err != nil {
		return err
	}
	return decode(data, result)
}

// getPrivate signs the request with instruction and the same query that is sent.
func (b *Backpack) getPrivate(ctx context.Context, path, instruction string, q query, result interface{}) error {
	if b.signer == nil {
		return &KeyLoadError{Reason: "private endpoint " + path, Err: ErrNoPrivateKey}
	}
	timestamp := b.now().UnixNano() / int64(time.Millisecond)
	sig, err := b.signer.Sign(instruction, q.encode(), timestamp, b.window)
	if err != nil {
		b.Sugar.Errorw("sign request failed", "path", path, "instruction", instruction, "error", err)
		return err
	}
	data, err := b.do(ctx, b.url(path, q), b.headerPrivate(sig))
	if err != nil {
		return err
	}
	return decode(data, result)
}

// getText returns the body as is.
func (b *Backpack) getText(ctx context.Context, path string) (string, error) {
	data, err := b.do(ctx, b.url(path, nil), b.header())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *Backpack) do(ctx context.Context, u string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: u, Err: err}
	}
	req.Header = header

	b.Sugar.Debugw("request", "method", req.Method, "url", u)
	resp, err := b.client.Do(req)
	if err != nil {
		b.Sugar.Errorw("request failed", "url", u, "error", err)
		return nil, &TransportError{Method: req.Method, URL: u, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: u, Err: errors.Wrap(err, "read body")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.Sugar.Errorw("bad status", "url", u, "status", resp.StatusCode, "body", string(data))
		return nil, newHTTPStatusError(u, resp.StatusCode, resp.Status, data)
	}
	return data, nil
}

func decode(data []byte, result interface{}) error {
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(result); err != nil {
		return errors.Wrapf(err, "decode response %q", truncate(data, 128))
	}
	// the body must hold exactly one value
	if err := d.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data")
		}
		return errors.Wrapf(err, "decode response %q", truncate(data, 128))
	}
	return nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
