package signature

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewVerifier_DefaultTolerance(t *testing.T) {
	v := NewVerifier("secret", Options{})
	if v == nil {
		t.Fatal("expected verifier instance")
	}
	if string(v.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(v.secret))
	}
	if v.tolerance != 5*time.Minute {
		t.Fatalf("unexpected tolerance: %s", v.tolerance)
	}
}

func TestNewVerifier_CustomTolerance(t *testing.T) {
	tolerance := 30 * time.Second
	v := NewVerifier("secret", Options{Tolerance: tolerance})
	if v.tolerance != tolerance {
		t.Fatalf("unexpected tolerance: %s", v.tolerance)
	}
}

func TestVerifier_SignAndVerify(t *testing.T) {
	v := NewVerifier("secret", Options{})
	payload := []byte(`{"order_id":"1001"}`)
	now := time.Unix(1700000000, 0)

	header := v.Sign(payload, now)
	if !strings.HasPrefix(header, "t=1700000000,v1=") {
		t.Fatalf("unexpected header format: %q", header)
	}
	if err := v.Verify(header, payload, now); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := v.Verify(header, payload, now.Add(time.Minute)); err != nil {
		t.Fatalf("verify within tolerance: %v", err)
	}
}

func TestVerifier_RejectsTamperedPayload(t *testing.T) {
	v := NewVerifier("secret", Options{})
	now := time.Unix(1700000000, 0)
	header := v.Sign([]byte("original"), now)

	if err := v.Verify(header, []byte("tampered"), now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	signer := NewVerifier("secret-a", Options{})
	verifier := NewVerifier("secret-b", Options{})
	now := time.Unix(1700000000, 0)
	payload := []byte("payload")

	if err := verifier.Verify(signer.Sign(payload, now), payload, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifier_RejectsStaleTimestamp(t *testing.T) {
	v := NewVerifier("secret", Options{Tolerance: time.Minute})
	now := time.Unix(1700000000, 0)
	payload := []byte("payload")
	header := v.Sign(payload, now)

	if err := v.Verify(header, payload, now.Add(2*time.Minute)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected stale signature rejection, got %v", err)
	}
	if err := v.Verify(header, payload, now.Add(-2*time.Minute)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected future signature rejection, got %v", err)
	}
}

func TestVerifier_RejectsMalformedHeaders(t *testing.T) {
	v := NewVerifier("secret", Options{})
	now := time.Unix(1700000000, 0)

	headers := []string{
		"",
		"garbage",
		"t=abc,v1=deadbeef",
		"v1=deadbeef",
		fmt.Sprintf("t=%d", now.Unix()),
		"t=,v1=",
	}

	for _, header := range headers {
		if err := v.Verify(header, []byte("payload"), now); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("header %q: expected ErrInvalidSignature, got %v", header, err)
		}
	}
}
