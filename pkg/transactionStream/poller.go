package transactionStream

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"go.uber.org/zap"
)

// TransactionSource is the slice of the gateway client the poller needs.
type TransactionSource interface {
	GetTransactions(ctx context.Context, fromVersion uint64) (*gateway.TransactionStreamResponse, error)
}

// BatchHandler consumes one batch of committed transactions. The cursor is
// only advanced after the handler returns nil, so a failed batch is retried
// from the same state version.
type BatchHandler func(ctx context.Context, batch *gateway.TransactionStreamResponse) error

type PollerConfig struct {
	// BackoffFloor is the first sleep after a transient condition (default 1s)
	BackoffFloor time.Duration
	// BackoffCeiling caps the doubling (default 30s)
	BackoffCeiling time.Duration
	// StartVersion overrides the persisted cursor when non-zero
	StartVersion uint64
}

// Poller walks the transaction stream in state version order. It alternates
// between two states, polling and backing off. Every poll failure doubles the
// sleep up to the ceiling; a successful poll resets it to zero.
type Poller struct {
	source  TransactionSource
	cursors CursorStore
	config  *PollerConfig
	logger  *zap.Logger
	metrics metricsTypes.IMetricsClient

	backoff time.Duration
}

func NewPoller(
	source TransactionSource,
	cursors CursorStore,
	cfg *PollerConfig,
	metricsClient metricsTypes.IMetricsClient,
	l *zap.Logger,
) *Poller {
	if cfg.BackoffFloor == 0 {
		cfg.BackoffFloor = time.Second
	}
	if cfg.BackoffCeiling == 0 {
		cfg.BackoffCeiling = 30 * time.Second
	}
	return &Poller{
		source:  source,
		cursors: cursors,
		config:  cfg,
		logger:  l,
		metrics: metricsClient,
	}
}

// Poll fetches and handles one batch starting after the persisted cursor.
// Returns the number of transactions handled. Transient conditions (rate
// limiting, polling past the ledger head) return (0, nil) and arm the backoff.
func (p *Poller) Poll(ctx context.Context, handler BatchHandler) (int, error) {
	cursor, err := p.cursors.Get(ctx)
	if err != nil {
		return 0, err
	}
	if cursor == 0 && p.config.StartVersion > 0 {
		cursor = p.config.StartVersion - 1
	}

	batch, err := p.source.GetTransactions(ctx, cursor+1)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrRateLimited):
			p.logger.Sugar().Debugw("gateway rate limited, backing off",
				zap.Uint64("fromVersion", cursor+1),
				zap.Duration("backoff", p.nextBackoff()),
			)
			_ = p.metrics.Incr(metricsTypes.Metric_Incr_StreamBackoff, []metricsTypes.MetricsLabel{
				{Name: "reason", Value: "rateLimited"},
			}, 1)
		case errors.Is(err, gateway.ErrBeyondLedgerEnd):
			p.logger.Sugar().Debugw("caught up with ledger head, backing off",
				zap.Uint64("fromVersion", cursor+1),
				zap.Duration("backoff", p.nextBackoff()),
			)
			_ = p.metrics.Incr(metricsTypes.Metric_Incr_StreamBackoff, []metricsTypes.MetricsLabel{
				{Name: "reason", Value: "ledgerEnd"},
			}, 1)
		default:
			p.logger.Sugar().Errorw("transaction stream poll failed",
				zap.Uint64("fromVersion", cursor+1),
				zap.Duration("backoff", p.nextBackoff()),
				zap.Error(err),
			)
			_ = p.metrics.Incr(metricsTypes.Metric_Incr_StreamBackoff, []metricsTypes.MetricsLabel{
				{Name: "reason", Value: "transport"},
			}, 1)
		}
		p.armBackoff()
		return 0, nil
	}

	if len(batch.Items) == 0 {
		// An empty page with no error also means we are at the head.
		p.armBackoff()
		return 0, nil
	}

	if err := handler(ctx, batch); err != nil {
		p.logger.Sugar().Errorw("batch handler failed, batch will be retried",
			zap.Uint64("fromVersion", cursor+1),
			zap.Error(err),
		)
		p.armBackoff()
		return 0, nil
	}

	// Advance to the highest state version in the batch, not the ledger state
	// of the response, so unfetched transactions are never skipped.
	newCursor := batch.Items[len(batch.Items)-1].StateVersion
	if err := p.cursors.Set(ctx, newCursor); err != nil {
		return 0, errors.Wrap(err, "failed to advance stream cursor")
	}

	p.backoff = 0
	_ = p.metrics.Gauge(metricsTypes.Metric_Gauge_CurrentStateVersion, float64(newCursor), nil)
	_ = p.metrics.Gauge(metricsTypes.Metric_Gauge_LastBatchSize, float64(len(batch.Items)), nil)
	return len(batch.Items), nil
}

// Run polls until ctx is cancelled. Cancellation is honored between polls and
// during backoff sleeps, never mid batch.
func (p *Poller) Run(ctx context.Context, handler BatchHandler) error {
	p.logger.Sugar().Infow("starting transaction stream poller",
		zap.Duration("backoffFloor", p.config.BackoffFloor),
		zap.Duration("backoffCeiling", p.config.BackoffCeiling),
	)
	for {
		if err := ctx.Err(); err != nil {
			p.logger.Sugar().Infow("transaction stream poller stopping")
			return nil
		}

		if _, err := p.Poll(ctx, handler); err != nil {
			return err
		}

		if p.backoff > 0 {
			select {
			case <-ctx.Done():
				p.logger.Sugar().Infow("transaction stream poller stopping")
				return nil
			case <-time.After(p.backoff):
			}
		}
	}
}

// nextBackoff reports the sleep the next failure will cause without arming it.
func (p *Poller) nextBackoff() time.Duration {
	if p.backoff == 0 {
		return p.config.BackoffFloor
	}
	doubled := p.backoff * 2
	if doubled > p.config.BackoffCeiling {
		return p.config.BackoffCeiling
	}
	return doubled
}

func (p *Poller) armBackoff() {
	p.backoff = p.nextBackoff()
}
