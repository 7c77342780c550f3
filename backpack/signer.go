package backpack

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"github.com/pkg/errors"
	"sort"
	"strconv"
	"strings"
)

// Signer holds the private key. It never exposes the key material, not even through fmt.
type Signer struct {
	key crypto.Signer
}

// Signature is the result of one signing, with the exact timestamp and window that were signed.
type Signature struct {
	Signature string
	Timestamp int64
	Window    int64
}

// NewSigner parses a PEM encoded PKCS#8 private key.
func NewSigner(privateKeyPEM string) (*Signer, error) {
	if strings.TrimSpace(privateKeyPEM) == "" {
		return nil, &KeyLoadError{Reason: "empty key material", Err: ErrNoPrivateKey}
	}
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, &KeyLoadError{Reason: "no PEM block found"}
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &KeyLoadError{Reason: "parse PKCS#8 " + block.Type, Err: err}
	}
	key, ok := parsed.(crypto.Signer)
	if !ok {
		return nil, &KeyLoadError{Reason: "key cannot sign"}
	}
	return &Signer{key: key}, nil
}

// Sign signs the canonical string of the request. params is an encoded query string, it may be
// empty and its fragments may come in any order.
func (s *Signer) Sign(instruction, params string, timestamp, window int64) (*Signature, error) {
	if instruction == "" {
		return nil, newValidationError("instruction", "must not be empty")
	}
	key, ok := s.key.(ed25519.PrivateKey)
	if !ok {
		return nil, &SigningError{Instruction: instruction, Err: errors.Errorf("unsupported key type %T", s.key)}
	}
	payload := CanonicalString(instruction, params, timestamp, window)
	raw, err := key.Sign(rand.Reader, []byte(payload), crypto.Hash(0))
	if err != nil {
		return nil, &SigningError{Instruction: instruction, Err: err}
	}
	if len(raw) == 0 {
		return nil, &SigningError{Instruction: instruction, Err: errors.New("empty signature")}
	}
	return &Signature{
		Signature: base64.StdEncoding.EncodeToString(raw),
		Timestamp: timestamp,
		Window:    window,
	}, nil
}

// Public returns the public half of the key.
func (s *Signer) Public() crypto.PublicKey {
	return s.key.Public()
}

func (s *Signer) String() string {
	return "backpack.Signer{***}"
}

func (s *Signer) GoString() string {
	return s.String()
}

// CanonicalString builds the string the exchange recomputes to verify a signature:
//
//	instruction=<instruction>&<params sorted by key=value>&timestamp=<timestamp>&window=<window>
func CanonicalString(instruction, params string, timestamp, window int64) string {
	var b strings.Builder
	b.WriteString("instruction=")
	b.WriteString(instruction)
	if sorted := sortParams(params); sorted != "" {
		b.WriteByte('&')
		b.WriteString(sorted)
	}
	b.WriteString("&timestamp=")
	b.WriteString(strconv.FormatInt(timestamp, 10))
	b.WriteString("&window=")
	b.WriteString(strconv.FormatInt(window, 10))
	return b.String()
}

func sortParams(params string) string {
	var fragments []string
	for _, f := range strings.Split(params, "&") {
		if f != "" {
			fragments = append(fragments, f)
		}
	}
	sort.Strings(fragments)
	return strings.Join(fragments, "&")
}
