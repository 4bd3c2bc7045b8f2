package eventWorker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/accountResolver"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	storage.IncentivesStore
	events      map[storage.EventKey]*storage.Event
	deletedKeys []storage.EventKey
}

func (f *fakeStore) GetEvents(_ context.Context, keys []storage.EventKey) ([]*storage.Event, error) {
	out := make([]*storage.Event, 0)
	for _, key := range keys {
		if event, ok := f.events[key]; ok {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteEvents(_ context.Context, keys []storage.EventKey) error {
	f.deletedKeys = append(f.deletedKeys, keys...)
	for _, key := range keys {
		delete(f.events, key)
	}
	return nil
}

type fakeAccounts struct {
	registered map[string]bool
}

func (f *fakeAccounts) IsRegistered(_ context.Context, address string) (bool, error) {
	return f.registered[address], nil
}

type nopLocator struct{}

func (nopLocator) GetNonFungibleLocation(_ context.Context, _ string, _ string, _ uint64) (*gateway.NonFungibleLocationResponse, error) {
	return &gateway.NonFungibleLocationResponse{}, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, task *asynq.Task) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func stagedCommonEvent(txId string, index int, account string, ts time.Time) *storage.Event {
	data, _ := json.Marshal(&eventMatcher.FungibleMovePayload{
		ResourceAddress: protocols.XRD,
		Amount:          "100",
		AccountAddress:  account,
	})
	return &storage.Event{
		TransactionID: txId,
		EventIndex:    index,
		StateVersion:  100,
		Timestamp:     ts,
		DApp:          "Common",
		Category:      "none",
		EventName:     "WithdrawEvent",
		EventType:     "WithdrawFungibleEvent",
		Data:          data,
	}
}

func Test_HandleEventProcess(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{events: map[storage.EventKey]*storage.Event{}}
	events := []*storage.Event{
		stagedCommonEvent("txid_rdx1one", 0, "account_rdx1alice", ts),
		stagedCommonEvent("txid_rdx1one", 1, "account_rdx1alice", ts),
		stagedCommonEvent("txid_rdx1one", 2, "account_rdx1bob", ts),
		stagedCommonEvent("txid_rdx1two", 0, "account_rdx1stranger", ts.Add(time.Minute)),
	}
	keys := make([]storage.EventKey, 0, len(events))
	for _, event := range events {
		store.events[event.Key()] = event
		keys = append(keys, event.Key())
	}

	resolver := accountResolver.NewResolver(nopLocator{}, &fakeAccounts{
		registered: map[string]bool{
			"account_rdx1alice": true,
			"account_rdx1bob":   true,
		},
	}, logger.NewNoopLogger())
	enqueuer := &fakeEnqueuer{}
	worker := NewEventWorker(store, resolver, enqueuer, logger.NewNoopLogger())

	payload, err := json.Marshal(&queue.EventProcessPayload{Events: keys})
	assert.Nil(t, err)

	err = worker.HandleEventProcess(context.Background(), asynq.NewTask(queue.TypeEventProcess, payload))
	assert.Nil(t, err)

	// one snapshot per transaction with at least one registered account, with
	// deduplicated addresses
	assert.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, queue.TypeSnapshotRecompute, enqueuer.tasks[0].Type())

	snapshot := &queue.SnapshotRecomputePayload{}
	assert.Nil(t, json.Unmarshal(enqueuer.tasks[0].Payload(), snapshot))
	assert.Equal(t, []string{"account_rdx1alice", "account_rdx1bob"}, snapshot.Addresses)
	assert.Equal(t, ts, snapshot.Timestamp.UTC())
	assert.Equal(t, uint64(100), snapshot.StateVersion)

	// staged rows are gone regardless of resolution outcome
	assert.Len(t, store.deletedKeys, 4)
	assert.Empty(t, store.events)
}

func Test_HandleEventProcess_AlreadyProcessed(t *testing.T) {
	store := &fakeStore{events: map[storage.EventKey]*storage.Event{}}
	resolver := accountResolver.NewResolver(nopLocator{}, &fakeAccounts{}, logger.NewNoopLogger())
	enqueuer := &fakeEnqueuer{}
	worker := NewEventWorker(store, resolver, enqueuer, logger.NewNoopLogger())

	payload, _ := json.Marshal(&queue.EventProcessPayload{Events: []storage.EventKey{
		{TransactionID: "txid_rdx1gone", EventIndex: 0},
	}})

	err := worker.HandleEventProcess(context.Background(), asynq.NewTask(queue.TypeEventProcess, payload))
	assert.Nil(t, err)
	assert.Empty(t, enqueuer.tasks)
	assert.Empty(t, store.deletedKeys)
}
