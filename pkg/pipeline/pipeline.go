// Package pipeline orchestrates ingestion: it normalizes fetched transaction
// batches, matches protocol events, persists them with their fee and
// engagement records, computes trading volume and hands staged events to the
// worker queue. It is driven by the transaction stream poller, which only
// advances its cursor after a batch went through here without error.
package pipeline

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/rdx-works/incentives-sidecar/pkg/tradingVolume"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

type Pipeline struct {
	normalizer *transactionParser.Normalizer
	registry   *eventMatcher.Registry
	store      storage.IncentivesStore
	volume     *tradingVolume.Calculator
	enqueuer   queue.Enqueuer
	pool       pond.Pool
	logger     *zap.Logger
	metrics    metricsTypes.IMetricsClient
}

func NewPipeline(
	normalizer *transactionParser.Normalizer,
	registry *eventMatcher.Registry,
	store storage.IncentivesStore,
	volume *tradingVolume.Calculator,
	enqueuer queue.Enqueuer,
	concurrency int,
	metricsClient metricsTypes.IMetricsClient,
	l *zap.Logger,
) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		normalizer: normalizer,
		registry:   registry,
		store:      store,
		volume:     volume,
		enqueuer:   enqueuer,
		pool:       pond.NewPool(concurrency),
		logger:     l,
		metrics:    metricsClient,
	}
}

// HandleBatch processes one fetched transaction batch. Any error leaves the
// stream cursor untouched so the batch is retried; every write underneath is
// an upsert or insert-or-ignore, which keeps the retry safe.
func (p *Pipeline) HandleBatch(ctx context.Context, batch *gateway.TransactionStreamResponse) error {
	start := time.Now()
	hasError := false
	defer func() {
		_ = p.metrics.Timing(metricsTypes.Metric_Timing_BatchProcessDuration, time.Since(start), []metricsTypes.MetricsLabel{
			{Name: "transactionCount", Value: strconv.Itoa(len(batch.Items))},
			{Name: "hasError", Value: strconv.FormatBool(hasError)},
		})
	}()

	parsed := p.normalizeParallel(ctx, batch.Items)

	for _, tx := range parsed {
		if tx == nil {
			continue
		}
		if err := p.processTransaction(ctx, tx); err != nil {
			hasError = true
			return err
		}
		_ = p.metrics.Incr(metricsTypes.Metric_Incr_TransactionProcessed, nil, 1)
	}
	return nil
}

// normalizeParallel fans transaction normalization out over the worker pool
// while keeping ledger order in the result.
func (p *Pipeline) normalizeParallel(ctx context.Context, items []gateway.CommittedTransaction) []*transactionParser.ParsedTransaction {
	parsed := make([]*transactionParser.ParsedTransaction, len(items))

	group := p.pool.NewGroupContext(ctx)
	for i := range items {
		i := i
		group.Submit(func() {
			parsed[i] = p.normalizer.Normalize(&items[i])
		})
	}
	_ = group.Wait()
	return parsed
}

func (p *Pipeline) processTransaction(ctx context.Context, tx *transactionParser.ParsedTransaction) error {
	matched, err := p.registry.MatchTransaction(tx)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return nil
	}

	staged := make([]*storage.Event, 0, len(matched))
	keys := make([]storage.EventKey, 0, len(matched))
	for _, event := range matched {
		row := &storage.Event{
			TransactionID:  event.TransactionID,
			EventIndex:     event.EventIndex,
			StateVersion:   event.StateVersion,
			Timestamp:      event.Timestamp,
			DApp:           event.DApp,
			Category:       event.Category,
			GlobalEmitter:  event.GlobalEmitter,
			PackageAddress: event.PackageAddress,
			EventName:      event.EventName,
			EventType:      event.EventType,
			Data:           event.Data,
		}
		staged = append(staged, row)
		keys = append(keys, row.Key())
	}
	if err := p.store.InsertTransactionWithEvents(ctx, &storage.Transaction{
		TransactionID: tx.TransactionID,
		StateVersion:  tx.StateVersion,
		Timestamp:     tx.Timestamp,
	}, staged); err != nil {
		return err
	}

	if err := p.recordEngagement(ctx, tx); err != nil {
		return err
	}

	volumes, err := p.volume.Calculate(ctx, tx, matched)
	if err != nil {
		return err
	}
	if err := p.store.InsertTradingVolumes(ctx, volumes); err != nil {
		return err
	}

	task, err := queue.NewEventProcessTask(&queue.EventProcessPayload{Events: keys})
	if err != nil {
		return err
	}
	if err := p.enqueuer.Enqueue(ctx, task); err != nil {
		return err
	}

	p.logger.Sugar().Debugw("processed transaction",
		zap.String("transactionId", tx.TransactionID),
		zap.Uint64("stateVersion", tx.StateVersion),
		zap.Int("matchedEvents", len(matched)),
	)
	return nil
}

// recordEngagement persists the fee record and the component call trail of
// the fee paying account.
func (p *Pipeline) recordEngagement(ctx context.Context, tx *transactionParser.ParsedTransaction) error {
	payer, fee, ok := tx.HighestFeePayer()
	if !ok {
		return nil
	}

	if err := p.store.InsertTransactionFee(ctx, &storage.TransactionFee{
		TransactionID:  tx.TransactionID,
		AccountAddress: payer,
		Fee:            fee.Abs(),
		Timestamp:      tx.Timestamp,
	}); err != nil {
		return err
	}

	if len(tx.ReferencedComponents) == 0 {
		return nil
	}
	calls, err := json.Marshal(tx.ReferencedComponents)
	if err != nil {
		return err
	}
	return p.store.UpsertComponentCalls(ctx, &storage.ComponentCall{
		AccountAddress: payer,
		Timestamp:      tx.Timestamp,
		Calls:          calls,
	})
}
