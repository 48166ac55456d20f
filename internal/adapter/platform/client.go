// Package platform notifies the commerce platform about committed
// credit redemptions so the platform can reflect them on the order.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOrderUnknown indicates the platform does not know the order the
// redemption references.
var ErrOrderUnknown = errors.New("order unknown to platform")

// TooManyRequestsError represents rate limiting signal from the platform.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes operations to report redemptions to the platform.
type Client interface {
	ReportRedemption(ctx context.Context, customerID, orderNumber string, amount decimal.Decimal) error
}

// HTTPClient implements Client via the platform's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// request mirrors the JSON payload the platform expects.
type request struct {
	CustomerID  string `json:"customer_id"`
	OrderNumber string `json:"order_number"`
	Amount      string `json:"amount"`
}

// NewHTTPClient creates a platform client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse platform url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("platform url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ReportRedemption posts one committed redemption to the platform.
func (c *HTTPClient) ReportRedemption(ctx context.Context, customerID, orderNumber string, amount decimal.Decimal) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/redemptions")

	payload, err := json.Marshal(request{
		CustomerID:  customerID,
		OrderNumber: orderNumber,
		Amount:      amount.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	case http.StatusNotFound:
		return ErrOrderUnknown
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("platform request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("platform error: %s", resp.Status)
	}
}

// NoopClient is wired when no platform address is configured; the
// ledger stays authoritative and nothing is reported.
type NoopClient struct{}

// ReportRedemption does nothing.
func (NoopClient) ReportRedemption(context.Context, string, string, decimal.Decimal) error {
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
