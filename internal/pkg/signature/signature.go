// Package signature implements HMAC-SHA256 webhook signature creation
// and verification. The header format is "t=<unix>,v1=<hex>", where the
// signed content is "<unix>.<payload>".
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header carries the webhook signature on incoming requests.
const Header = "X-Credit-Signature"

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Verifier checks webhook payload signatures against a shared secret.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
}

// Options tune verification behaviour.
type Options struct {
	// Tolerance bounds the accepted age of a signature timestamp.
	Tolerance time.Duration
}

// NewVerifier builds a Verifier with the provided secret and options.
func NewVerifier(secret string, opts Options) *Verifier {
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &Verifier{secret: []byte(secret), tolerance: tolerance}
}

// Sign produces a signature header value for the payload at the given
// time. Intended for event producers and tests.
func (v *Verifier) Sign(payload []byte, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, v.compute(ts, payload))
}

// Verify validates a signature header against the payload. The
// signature must parse, be within the timestamp tolerance of now, and
// match the expected HMAC.
func (v *Verifier) Verify(header string, payload []byte, now time.Time) error {
	ts, sig, err := parseHeader(header)
	if err != nil {
		return err
	}

	issued := time.Unix(ts, 0)
	age := now.Sub(issued)
	if age > v.tolerance || age < -v.tolerance {
		return ErrInvalidSignature
	}

	expected := v.compute(ts, payload)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	return nil
}

func (v *Verifier) compute(ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseHeader(header string) (int64, string, error) {
	var (
		ts   int64
		sig  string
		seen bool
	)
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, "", ErrInvalidSignature
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, "", ErrInvalidSignature
			}
			ts = parsed
			seen = true
		case "v1":
			sig = value
		}
	}
	if !seen || sig == "" {
		return 0, "", ErrInvalidSignature
	}
	return ts, sig, nil
}
