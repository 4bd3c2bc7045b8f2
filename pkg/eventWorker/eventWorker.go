// Package eventWorker consumes staged event batches, resolves the accounts
// they belong to and schedules balance snapshots for those accounts. Staged
// rows are deleted once handled; snapshot consumers are idempotent so a crash
// between enqueue and delete only causes duplicate work, never lost work.
package eventWorker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/accountResolver"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"go.uber.org/zap"
)

type EventWorker struct {
	store    storage.IncentivesStore
	resolver *accountResolver.Resolver
	enqueuer queue.Enqueuer
	logger   *zap.Logger
}

func NewEventWorker(
	store storage.IncentivesStore,
	resolver *accountResolver.Resolver,
	enqueuer queue.Enqueuer,
	l *zap.Logger,
) *EventWorker {
	return &EventWorker{
		store:    store,
		resolver: resolver,
		enqueuer: enqueuer,
		logger:   l,
	}
}

// HandleEventProcess is the asynq handler for event:process tasks.
func (w *EventWorker) HandleEventProcess(ctx context.Context, task *asynq.Task) error {
	payload := &queue.EventProcessPayload{}
	if err := json.Unmarshal(task.Payload(), payload); err != nil {
		return errors.Wrap(err, "failed to decode event process payload")
	}

	events, err := w.store.GetEvents(ctx, payload.Events)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		// already processed by an earlier delivery
		return nil
	}

	resolved, err := w.resolver.Resolve(ctx, toMatchedEvents(events))
	if err != nil {
		return err
	}

	if err := w.scheduleSnapshots(ctx, resolved); err != nil {
		return err
	}

	if err := w.store.DeleteEvents(ctx, payload.Events); err != nil {
		return err
	}

	w.logger.Sugar().Debugw("processed staged events",
		zap.Int("eventCount", len(events)),
	)
	return nil
}

// scheduleSnapshots enqueues one snapshot task per transaction that resolved
// to at least one registered account.
func (w *EventWorker) scheduleSnapshots(ctx context.Context, resolved []accountResolver.ResolvedEvent) error {
	type group struct {
		timestamp    time.Time
		stateVersion uint64
		addresses    []string
		seen         map[string]bool
	}
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, event := range resolved {
		if event.Address == nil {
			continue
		}
		g, ok := groups[event.TransactionID]
		if !ok {
			g = &group{
				timestamp:    event.Timestamp,
				stateVersion: event.StateVersion,
				seen:         make(map[string]bool),
			}
			groups[event.TransactionID] = g
			order = append(order, event.TransactionID)
		}
		if g.seen[*event.Address] {
			continue
		}
		g.seen[*event.Address] = true
		g.addresses = append(g.addresses, *event.Address)
	}

	for _, txId := range order {
		g := groups[txId]
		task, err := queue.NewSnapshotRecomputeTask(&queue.SnapshotRecomputePayload{
			Timestamp:    g.timestamp,
			StateVersion: g.stateVersion,
			Addresses:    g.addresses,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to build snapshot task for '%s'", txId)
		}
		if err := w.enqueuer.Enqueue(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func toMatchedEvents(events []*storage.Event) []*eventMatcher.MatchedEvent {
	out := make([]*eventMatcher.MatchedEvent, 0, len(events))
	for _, event := range events {
		out = append(out, &eventMatcher.MatchedEvent{
			DApp:           event.DApp,
			Category:       event.Category,
			TransactionID:  event.TransactionID,
			StateVersion:   event.StateVersion,
			Timestamp:      event.Timestamp,
			EventIndex:     event.EventIndex,
			GlobalEmitter:  event.GlobalEmitter,
			PackageAddress: event.PackageAddress,
			EventName:      event.EventName,
			EventType:      event.EventType,
			Data:           event.Data,
		})
	}
	return out
}
