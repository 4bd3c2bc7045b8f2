package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/rdx-works/incentives-sidecar/pkg/tradingVolume"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const c9XrdXusdcComponent = "component_rdx1cr6lxkr83gzhmyg4uxg49wkug5s4wwc3c7cgmhxuczxraa09a97wcu"

type fakeStore struct {
	storage.IncentivesStore

	transactions   []*storage.Transaction
	events         []*storage.Event
	fees           []*storage.TransactionFee
	componentCalls []*storage.ComponentCall
	volumes        []*storage.TradingVolume
}

func (f *fakeStore) InsertTransactionWithEvents(_ context.Context, tx *storage.Transaction, events []*storage.Event) error {
	f.transactions = append(f.transactions, tx)
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeStore) InsertTransactionFee(_ context.Context, fee *storage.TransactionFee) error {
	f.fees = append(f.fees, fee)
	return nil
}

func (f *fakeStore) UpsertComponentCalls(_ context.Context, call *storage.ComponentCall) error {
	f.componentCalls = append(f.componentCalls, call)
	return nil
}

func (f *fakeStore) InsertTradingVolumes(_ context.Context, volumes []*storage.TradingVolume) error {
	f.volumes = append(f.volumes, volumes...)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, task *asynq.Task) error {
	f.tasks = append(f.tasks, task)
	return nil
}

type fakePrices struct{}

func (fakePrices) GetUsdPrice(_ context.Context, resourceAddress string, _ time.Time) (decimal.Decimal, error) {
	if resourceAddress == protocols.XRD {
		return decimal.NewFromInt(1), nil
	}
	return decimal.Zero, tokenPrice.ErrPriceNotFound
}

func (f fakePrices) GetUsdValue(ctx context.Context, resourceAddress string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	price, err := f.GetUsdPrice(ctx, resourceAddress, at)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(price), nil
}

func swapTransaction(ts time.Time) gateway.CommittedTransaction {
	return gateway.CommittedTransaction{
		IntentHash:           "txid_rdx1swap",
		StateVersion:         500,
		RoundTimestamp:       ts,
		ManifestInstructions: `CALL_METHOD Address("` + c9XrdXusdcComponent + `") "swap"`,
		BalanceChanges: &gateway.TransactionBalanceChanges{
			FungibleBalanceChanges: []gateway.BalanceChange{
				{EntityAddress: "account_rdx1trader", ResourceAddress: protocols.XRD, BalanceChange: "-250"},
				{EntityAddress: c9XrdXusdcComponent, ResourceAddress: protocols.XRD, BalanceChange: "250"},
			},
			FungibleFeeBalanceChanges: []gateway.BalanceChange{
				{EntityAddress: "account_rdx1trader", ResourceAddress: protocols.XRD, BalanceChange: "-1.5"},
			},
		},
		DetailedEvents: []gateway.DetailedEvent{
			{
				Identifier: gateway.EventIdentifier{Package: "package_rdx1c9", Event: "SwapEvent"},
				Emitter:    gateway.EventEmitter{Type: "EntityMethod", GlobalEmitter: c9XrdXusdcComponent},
				Payload:    json.RawMessage(`{"amount_change_x": "-250", "amount_change_y": "24.7"}`),
			},
		},
	}
}

func newTestPipeline(store *fakeStore, enqueuer *fakeEnqueuer) *Pipeline {
	l := logger.NewNoopLogger()
	m := metrics.NewNoopMetricsClient()
	return NewPipeline(
		transactionParser.NewNormalizer(l),
		eventMatcher.NewDefaultRegistry(m, l),
		store,
		tradingVolume.NewCalculator(fakePrices{}, m, l),
		enqueuer,
		4,
		m,
		l,
	)
}

func Test_HandleBatch_SwapEndToEnd(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	enqueuer := &fakeEnqueuer{}
	p := newTestPipeline(store, enqueuer)

	batch := &gateway.TransactionStreamResponse{
		Items: []gateway.CommittedTransaction{swapTransaction(ts)},
	}
	err := p.HandleBatch(context.Background(), batch)
	assert.Nil(t, err)

	assert.Len(t, store.transactions, 1)
	assert.Equal(t, "txid_rdx1swap", store.transactions[0].TransactionID)

	assert.Len(t, store.events, 1)
	assert.Equal(t, "Caviarnine", store.events[0].DApp)
	assert.Equal(t, "SwapEvent", store.events[0].EventType)

	assert.Len(t, store.fees, 1)
	assert.Equal(t, "account_rdx1trader", store.fees[0].AccountAddress)
	assert.True(t, store.fees[0].Fee.Equal(decimal.RequireFromString("1.5")))

	assert.Len(t, store.componentCalls, 1)
	assert.Contains(t, string(store.componentCalls[0].Calls), c9XrdXusdcComponent)

	// 250 XRD in at $1
	assert.Len(t, store.volumes, 1)
	assert.Equal(t, "c9_trade_xrd-xusdc", store.volumes[0].ActivityID)
	assert.Equal(t, "250.00", store.volumes[0].UsdValue.StringFixed(2))
	assert.Equal(t, "account_rdx1trader", store.volumes[0].AccountAddress)

	assert.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, queue.TypeEventProcess, enqueuer.tasks[0].Type())

	payload := &queue.EventProcessPayload{}
	assert.Nil(t, json.Unmarshal(enqueuer.tasks[0].Payload(), payload))
	assert.Equal(t, []storage.EventKey{{TransactionID: "txid_rdx1swap", EventIndex: 0}}, payload.Events)
}

func Test_HandleBatch_SkipsUninterestingTransactions(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	enqueuer := &fakeEnqueuer{}
	p := newTestPipeline(store, enqueuer)

	batch := &gateway.TransactionStreamResponse{
		Items: []gateway.CommittedTransaction{
			// no balance changes, dropped by the normalizer
			{IntentHash: "txid_rdx1empty", StateVersion: 1, RoundTimestamp: ts},
			// nothing a matcher cares about
			{
				IntentHash:     "txid_rdx1boring",
				StateVersion:   2,
				RoundTimestamp: ts,
				BalanceChanges: &gateway.TransactionBalanceChanges{
					FungibleBalanceChanges: []gateway.BalanceChange{
						{EntityAddress: "account_rdx1someone", ResourceAddress: "resource_rdx1meme", BalanceChange: "5"},
					},
				},
			},
		},
	}
	err := p.HandleBatch(context.Background(), batch)
	assert.Nil(t, err)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.events)
	assert.Empty(t, enqueuer.tasks)
}

func Test_HandleBatch_Idempotent(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	enqueuer := &fakeEnqueuer{}
	p := newTestPipeline(store, enqueuer)

	batch := &gateway.TransactionStreamResponse{
		Items: []gateway.CommittedTransaction{swapTransaction(ts)},
	}
	assert.Nil(t, p.HandleBatch(context.Background(), batch))
	assert.Nil(t, p.HandleBatch(context.Background(), batch))

	// the store receives the same keyed rows twice; conflict handling makes
	// the second pass a no-op downstream
	assert.Len(t, store.transactions, 2)
	assert.Equal(t, store.transactions[0].TransactionID, store.transactions[1].TransactionID)
	assert.Len(t, enqueuer.tasks, 2)
}
