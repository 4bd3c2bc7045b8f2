// Package snapshot values account holdings at a point in ledger history and
// persists them as balance snapshot rows. Snapshots are keyed on
// (account, timestamp, resource) with insert-or-ignore semantics, so the same
// task can be delivered more than once without corrupting history.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BalanceSource is the slice of the gateway client the snapshotter needs.
type BalanceSource interface {
	GetFungibleBalances(ctx context.Context, address string, atVersion uint64) (*gateway.EntityFungiblesResponse, error)
}

type Snapshotter struct {
	balances BalanceSource
	prices   tokenPrice.PriceSource
	store    storage.IncentivesStore
	logger   *zap.Logger
	metrics  metricsTypes.IMetricsClient
}

func NewSnapshotter(
	balances BalanceSource,
	prices tokenPrice.PriceSource,
	store storage.IncentivesStore,
	metricsClient metricsTypes.IMetricsClient,
	l *zap.Logger,
) *Snapshotter {
	return &Snapshotter{
		balances: balances,
		prices:   prices,
		store:    store,
		logger:   l,
		metrics:  metricsClient,
	}
}

// HandleSnapshotRecompute is the asynq handler for snapshot:recompute tasks.
func (s *Snapshotter) HandleSnapshotRecompute(ctx context.Context, task *asynq.Task) error {
	payload := &queue.SnapshotRecomputePayload{}
	if err := json.Unmarshal(task.Payload(), payload); err != nil {
		return errors.Wrap(err, "failed to decode snapshot payload")
	}

	rows := make([]*storage.AccountBalance, 0)
	for _, address := range payload.Addresses {
		accountRows, err := s.snapshotAccount(ctx, address, payload.StateVersion, payload.Timestamp)
		if err != nil {
			return err
		}
		rows = append(rows, accountRows...)
	}

	if err := s.store.InsertAccountBalances(ctx, rows); err != nil {
		return err
	}
	_ = s.metrics.Incr(metricsTypes.Metric_Incr_SnapshotRowWritten, nil, float64(len(rows)))

	s.logger.Sugar().Debugw("wrote balance snapshot",
		zap.Int("accountCount", len(payload.Addresses)),
		zap.Int("rowCount", len(rows)),
		zap.Uint64("stateVersion", payload.StateVersion),
	)
	return nil
}

// snapshotAccount values the tracked holdings of one account. Resources
// without a known price are recorded with a zero USD value rather than
// dropped, so the holding itself is still visible.
func (s *Snapshotter) snapshotAccount(ctx context.Context, address string, stateVersion uint64, timestamp time.Time) ([]*storage.AccountBalance, error) {
	balances, err := s.balances.GetFungibleBalances(ctx, address, stateVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch balances for '%s'", address)
	}

	rows := make([]*storage.AccountBalance, 0, len(balances.Items))
	for _, item := range balances.Items {
		if !protocols.TrackedResources[item.ResourceAddress] {
			continue
		}
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid balance amount '%s' for '%s'", item.Amount, address)
		}
		if amount.IsZero() {
			continue
		}

		usdValue, err := s.prices.GetUsdValue(ctx, item.ResourceAddress, amount, timestamp)
		if err != nil {
			if !errors.Is(err, tokenPrice.ErrPriceNotFound) {
				return nil, err
			}
			s.logger.Sugar().Warnw("no price for tracked resource",
				zap.String("resourceAddress", item.ResourceAddress),
				zap.Time("timestamp", timestamp),
			)
			usdValue = decimal.Zero
		}

		rows = append(rows, &storage.AccountBalance{
			AccountAddress:  address,
			Timestamp:       timestamp,
			ResourceAddress: item.ResourceAddress,
			ActivityID:      protocols.BalanceActivities[item.ResourceAddress],
			Amount:          amount,
			UsdValue:        usdValue,
		})
	}
	return rows, nil
}
