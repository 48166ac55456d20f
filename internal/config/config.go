package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchware/creditledger/internal/domain/model"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	PlatformAddress   string
	WebhookSecret     string
	TierTableFile     string
	Tiers             model.TierTable
	CapRate           decimal.Decimal
	EventPollInterval time.Duration
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration
	MaxEventsBatch    int
}

const (
	defaultRunAddress        = ":8080"
	defaultWebhookSecret     = "change-me-in-production"
	defaultEventPollInterval = 3 * time.Second
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultMaxEventsBatch    = 32
	defaultCapRate           = "0.20"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		PlatformAddress:   getString(lookup, "PLATFORM_ADDRESS", ""),
		WebhookSecret:     getString(lookup, "WEBHOOK_SECRET", defaultWebhookSecret),
		TierTableFile:     getString(lookup, "TIER_TABLE_FILE", ""),
		EventPollInterval: getDuration(lookup, "EVENT_POLL_INTERVAL", defaultEventPollInterval),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxEventsBatch:    getInt(lookup, "POLL_BATCH_SIZE", defaultMaxEventsBatch),
	}

	capRateStr := getString(lookup, "REDEMPTION_CAP_RATE", defaultCapRate)

	fs := flag.NewFlagSet("creditledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.EventPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PlatformAddress, "p", cfg.PlatformAddress, "Commerce platform base URL (optional)")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Secret for verifying webhook signatures")
	fs.StringVar(&cfg.TierTableFile, "tiers", cfg.TierTableFile, "Path to tier table JSON file")
	fs.StringVar(&capRateStr, "cap-rate", capRateStr, "Redemption cap as a fraction of order subtotal")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent event workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between event inbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxEventsBatch, "poll-batch", cfg.MaxEventsBatch, "Maximum events per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.EventPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.CapRate, err = decimal.NewFromString(capRateStr); err != nil {
		return nil, fmt.Errorf("invalid cap rate: %w", err)
	}
	if cfg.CapRate.LessThanOrEqual(decimal.Zero) || cfg.CapRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("cap rate must be in (0, 1], got %s", cfg.CapRate)
	}

	if secretFile, ok := lookup("WEBHOOK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.WebhookSecret = string(content)
	}

	if cfg.Tiers, err = loadTiers(cfg.TierTableFile); err != nil {
		return nil, err
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxEventsBatch <= 0 {
		cfg.MaxEventsBatch = defaultMaxEventsBatch
	}

	if cfg.EventPollInterval <= 0 {
		cfg.EventPollInterval = defaultEventPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// loadTiers reads the tier schedule from a JSON file, falling back to
// the built-in table when no file is configured.
func loadTiers(path string) (model.TierTable, error) {
	if path == "" {
		return model.DefaultTierTable(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tier table file: %w", err)
	}

	var tiers []model.Tier
	if err := json.Unmarshal(content, &tiers); err != nil {
		return nil, fmt.Errorf("parse tier table file: %w", err)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier table file %s is empty", path)
	}
	for _, tier := range tiers {
		if tier.ThresholdMinor < 0 || tier.RateBasisPoints < 0 {
			return nil, fmt.Errorf("tier table entries must be non-negative")
		}
	}
	return model.NewTierTable(tiers), nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
