package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
)

// CreditFacade exposes the subset of application functionality required by the worker.
type CreditFacade interface {
	EventsForProcessing(ctx context.Context, limit int) ([]model.OrderEvent, error)
	ApplyOrderEvent(ctx context.Context, event model.OrderEvent) (bool, error)
	UpdateEventStatus(ctx context.Context, eventID int64, status model.OrderEventStatus) error
}

// EventProcessor drains the order-event inbox and applies accruals to
// the ledger concurrently. Application is idempotent, so redelivered or
// re-claimed events settle as no-ops.
type EventProcessor struct {
	facade       CreditFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.OrderEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventProcessor constructs the event processor worker pool.
func NewEventProcessor(facade CreditFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *EventProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &EventProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.OrderEvent, batchSize*workers),
	}
}

// Start launches background processing.
func (p *EventProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *EventProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *EventProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *EventProcessor) fetchAndDispatch(ctx context.Context) {
	events, err := p.facade.EventsForProcessing(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch events for processing failed", slog.String("error", err.Error()))
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- event:
		}
	}
}

func (p *EventProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleEvent(ctx, event)
		}
	}
}

func (p *EventProcessor) handleEvent(ctx context.Context, event model.OrderEvent) {
	applied, err := p.facade.ApplyOrderEvent(ctx, event)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOrderAmount),
			errors.Is(err, domainErrors.ErrInvalidOrderID),
			errors.Is(err, domainErrors.ErrNoCustomer):
			p.logger.Warn("order event rejected", slog.String("order", event.OrderID), slog.String("error", err.Error()))
			if err := p.facade.UpdateEventStatus(ctx, event.ID, model.OrderEventStatusInvalid); err != nil {
				p.logger.Error("update event status failed", slog.String("order", event.OrderID), slog.String("error", err.Error()))
			}
		default:
			// Transient failure: the event stays claimable and a later
			// poll retries it.
			p.logger.Error("apply order event failed", slog.String("order", event.OrderID), slog.String("error", err.Error()))
		}
		return
	}

	if !applied {
		p.logger.Info("order event replayed", slog.String("order", event.OrderID))
	}

	if err := p.facade.UpdateEventStatus(ctx, event.ID, model.OrderEventStatusApplied); err != nil {
		p.logger.Error("update event status failed", slog.String("order", event.OrderID), slog.String("error", err.Error()))
	}
}
