package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
	"github.com/merchware/creditledger/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses; tests swap in
// a pgxmock pool through it.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type ledgerRepository struct {
	storage *Storage
}

type orderEventRepository struct {
	storage *Storage
}

type redemptionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) OrderEvents() repository.OrderEventRepository {
	return &orderEventRepository{storage: s}
}

func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ledger_entries (
            customer_id TEXT NOT NULL,
            year INT NOT NULL,
            month INT NOT NULL,
            revenue NUMERIC NOT NULL DEFAULT 0,
            earned NUMERIC NOT NULL DEFAULT 0,
            redeemed NUMERIC NOT NULL DEFAULT 0,
            PRIMARY KEY (customer_id, year, month)
        )`,
		`CREATE TABLE IF NOT EXISTS applied_orders (
            order_id TEXT PRIMARY KEY,
            customer_id TEXT NOT NULL,
            total NUMERIC NOT NULL,
            order_at TIMESTAMPTZ NOT NULL,
            applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id SERIAL PRIMARY KEY,
            order_id TEXT UNIQUE NOT NULL,
            customer_id TEXT NOT NULL,
            total NUMERIC NOT NULL,
            currency TEXT NOT NULL DEFAULT 'USD',
            order_at TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL,
            received_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS redemptions (
            id SERIAL PRIMARY KEY,
            customer_id TEXT NOT NULL,
            amount NUMERIC NOT NULL,
            order_number TEXT NOT NULL DEFAULT '',
            processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_status ON order_events(status, received_at)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_customer ON redemptions(customer_id, processed_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// parseAmount converts a stored NUMERIC (selected as text) back to a
// decimal. Unparsable or negative stored amounts surface as corruption
// instead of silently defaulting to zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad amount %q", domainErrors.ErrLedgerCorruption, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative amount %q", domainErrors.ErrLedgerCorruption, raw)
	}
	return d, nil
}

func scanEntry(row pgx.Row, customerID string, month model.MonthKey) (model.LedgerEntry, error) {
	var revenueRaw, earnedRaw, redeemedRaw string
	if err := row.Scan(&revenueRaw, &earnedRaw, &redeemedRaw); err != nil {
		return model.LedgerEntry{}, err
	}

	entry := model.LedgerEntry{CustomerID: customerID, Month: month}
	var err error
	if entry.Revenue, err = parseAmount(revenueRaw); err != nil {
		return model.LedgerEntry{}, err
	}
	if entry.Earned, err = parseAmount(earnedRaw); err != nil {
		return model.LedgerEntry{}, err
	}
	if entry.Redeemed, err = parseAmount(redeemedRaw); err != nil {
		return model.LedgerEntry{}, err
	}
	return entry, nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) ApplyOrder(ctx context.Context, orderID, customerID string, total decimal.Decimal, orderAt time.Time, month model.MonthKey, apply func(model.LedgerEntry) (model.LedgerEntry, error)) (bool, error) {
	applied := false
	duplicate := false
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const dedupe = `INSERT INTO applied_orders (order_id, customer_id, total, order_at)
                        VALUES ($1, $2, $3, $4)
                        ON CONFLICT (order_id) DO NOTHING`
		tag, err := tx.Exec(ctx, dedupe, orderID, customerID, total.String(), orderAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Replay: the order is already in the ledger.
			duplicate = true
			return nil
		}

		const selectEntry = `SELECT revenue::text, earned::text, redeemed::text
                             FROM ledger_entries
                             WHERE customer_id=$1 AND year=$2 AND month=$3
                             FOR UPDATE`
		entry, err := scanEntry(tx.QueryRow(ctx, selectEntry, customerID, month.Year, int(month.Month)), customerID, month)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				entry = model.LedgerEntry{
					CustomerID: customerID,
					Month:      month,
					Revenue:    decimal.Zero,
					Earned:     decimal.Zero,
					Redeemed:   decimal.Zero,
				}
			} else {
				return err
			}
		}

		updated, err := apply(entry)
		if err != nil {
			return err
		}

		const upsert = `INSERT INTO ledger_entries (customer_id, year, month, revenue, earned, redeemed)
                        VALUES ($1, $2, $3, $4, $5, $6)
                        ON CONFLICT (customer_id, year, month) DO UPDATE
                        SET revenue = EXCLUDED.revenue,
                            earned = EXCLUDED.earned,
                            redeemed = EXCLUDED.redeemed`
		if _, err := tx.Exec(ctx, upsert, customerID, month.Year, int(month.Month), updated.Revenue.String(), updated.Earned.String(), updated.Redeemed.String()); err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if duplicate {
		return false, domainErrors.ErrDuplicateOrder
	}
	return applied, nil
}

func (r *ledgerRepository) Months(ctx context.Context, customerID string) ([]model.LedgerEntry, error) {
	const query = `SELECT year, month, revenue::text, earned::text, redeemed::text
                   FROM ledger_entries WHERE customer_id=$1 ORDER BY year, month`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows, customerID)
}

func (r *ledgerRepository) ApplyRedemption(ctx context.Context, customerID string, asOf model.MonthKey, amount decimal.Decimal, orderNumber string, plan func([]model.LedgerEntry) ([]model.LedgerEntry, error)) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectMatured = `SELECT year, month, revenue::text, earned::text, redeemed::text
                               FROM ledger_entries
                               WHERE customer_id=$1 AND (year < $2 OR (year = $2 AND month < $3))
                               ORDER BY year, month
                               FOR UPDATE`
		rows, err := tx.Query(ctx, selectMatured, customerID, asOf.Year, int(asOf.Month))
		if err != nil {
			return err
		}
		entries, err := collectEntries(rows, customerID)
		rows.Close()
		if err != nil {
			return err
		}

		changed, err := plan(entries)
		if err != nil {
			return err
		}

		const update = `UPDATE ledger_entries SET redeemed=$1
                        WHERE customer_id=$2 AND year=$3 AND month=$4`
		for _, entry := range changed {
			if _, err := tx.Exec(ctx, update, entry.Redeemed.String(), customerID, entry.Month.Year, int(entry.Month.Month)); err != nil {
				return err
			}
		}

		const insertRedemption = `INSERT INTO redemptions (customer_id, amount, order_number) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insertRedemption, customerID, amount.String(), orderNumber); err != nil {
			return err
		}
		return nil
	})
}

func collectEntries(rows pgx.Rows, customerID string) ([]model.LedgerEntry, error) {
	var result []model.LedgerEntry
	for rows.Next() {
		var (
			year, monthNum                     int
			revenueRaw, earnedRaw, redeemedRaw string
		)
		if err := rows.Scan(&year, &monthNum, &revenueRaw, &earnedRaw, &redeemedRaw); err != nil {
			return nil, err
		}
		if monthNum < 1 || monthNum > 12 {
			return nil, fmt.Errorf("%w: month %d out of range", domainErrors.ErrLedgerCorruption, monthNum)
		}

		entry := model.LedgerEntry{CustomerID: customerID, Month: model.NewMonthKey(year, time.Month(monthNum))}
		var err error
		if entry.Revenue, err = parseAmount(revenueRaw); err != nil {
			return nil, err
		}
		if entry.Earned, err = parseAmount(earnedRaw); err != nil {
			return nil, err
		}
		if entry.Redeemed, err = parseAmount(redeemedRaw); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderEventRepository implementation ---

func (r *orderEventRepository) Enqueue(ctx context.Context, event model.OrderEvent) (*model.OrderEvent, bool, error) {
	const query = `INSERT INTO order_events (order_id, customer_id, total, currency, order_at, status)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (order_id) DO NOTHING
                   RETURNING id, status, received_at, updated_at`
	stored := event
	stored.Status = model.OrderEventStatusNew
	err := r.storage.pool.QueryRow(ctx, query, event.OrderID, event.CustomerID, event.Total.String(), event.Currency, event.OrderAt, model.OrderEventStatusNew).
		Scan(&stored.ID, &stored.Status, &stored.ReceivedAt, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.getByOrderID(ctx, event.OrderID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &stored, true, nil
}

func (r *orderEventRepository) getByOrderID(ctx context.Context, orderID string) (*model.OrderEvent, error) {
	const query = `SELECT id, order_id, customer_id, total::text, currency, order_at, status, received_at, updated_at
                   FROM order_events WHERE order_id=$1`
	event, err := scanEvent(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *orderEventRepository) SelectBatchForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	const selectQuery = `SELECT id, order_id, customer_id, total::text, currency, order_at, status, received_at, updated_at
                         FROM order_events
                         WHERE status IN ('NEW', 'PROCESSING')
                         ORDER BY received_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var events []model.OrderEvent
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			event, err := scanEvent(rows)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `UPDATE order_events SET status='PROCESSING', updated_at=NOW() WHERE id=$1`, event.ID); err != nil {
				return err
			}
			event.Status = model.OrderEventStatusProcessing
			events = append(events, *event)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *orderEventRepository) UpdateStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error {
	const query = `UPDATE order_events SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.storage.pool.Exec(ctx, query, status, eventID)
	return err
}

func scanEvent(row pgx.Row) (*model.OrderEvent, error) {
	var (
		event    model.OrderEvent
		totalRaw string
	)
	err := row.Scan(&event.ID, &event.OrderID, &event.CustomerID, &totalRaw, &event.Currency, &event.OrderAt, &event.Status, &event.ReceivedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if event.Total, err = parseAmount(totalRaw); err != nil {
		return nil, err
	}
	return &event, nil
}

// --- RedemptionRepository implementation ---

func (r *redemptionRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Redemption, error) {
	const query = `SELECT id, customer_id, amount::text, order_number, processed_at
                   FROM redemptions WHERE customer_id=$1 ORDER BY processed_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Redemption
	for rows.Next() {
		var (
			redemption model.Redemption
			amountRaw  string
		)
		if err := rows.Scan(&redemption.ID, &redemption.CustomerID, &amountRaw, &redemption.OrderNumber, &redemption.ProcessedAt); err != nil {
			return nil, err
		}
		if redemption.Amount, err = parseAmount(amountRaw); err != nil {
			return nil, err
		}
		result = append(result, redemption)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
