package transactionStream

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	responses []func() (*gateway.TransactionStreamResponse, error)
	calls     int
	fromSeen  []uint64
}

func (f *fakeSource) GetTransactions(ctx context.Context, fromVersion uint64) (*gateway.TransactionStreamResponse, error) {
	f.fromSeen = append(f.fromSeen, fromVersion)
	fn := f.responses[f.calls]
	if f.calls < len(f.responses)-1 {
		f.calls++
	}
	return fn()
}

func batchOf(versions ...uint64) func() (*gateway.TransactionStreamResponse, error) {
	return func() (*gateway.TransactionStreamResponse, error) {
		res := &gateway.TransactionStreamResponse{}
		for _, v := range versions {
			res.Items = append(res.Items, gateway.CommittedTransaction{
				IntentHash:   "txid_rdx1test",
				StateVersion: v,
			})
		}
		if len(versions) > 0 {
			res.LedgerState.StateVersion = versions[len(versions)-1]
		}
		return res, nil
	}
}

func failWith(err error) func() (*gateway.TransactionStreamResponse, error) {
	return func() (*gateway.TransactionStreamResponse, error) {
		return nil, err
	}
}

func newTestPoller(source *fakeSource, cfg *PollerConfig) (*Poller, *InMemoryCursorStore) {
	cursors := NewInMemoryCursorStore()
	p := NewPoller(source, cursors, cfg, metrics.NewNoopMetricsClient(), logger.NewNoopLogger())
	return p, cursors
}

func noopHandler(ctx context.Context, batch *gateway.TransactionStreamResponse) error {
	return nil
}

func Test_Poll_AdvancesCursorOnSuccess(t *testing.T) {
	source := &fakeSource{responses: []func() (*gateway.TransactionStreamResponse, error){
		batchOf(101, 102, 105),
	}}
	p, cursors := newTestPoller(source, &PollerConfig{})

	n, err := p.Poll(context.Background(), noopHandler)
	assert.Nil(t, err)
	assert.Equal(t, 3, n)

	cursor, err := cursors.Get(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, uint64(105), cursor)
	assert.Equal(t, []uint64{1}, source.fromSeen)
}

func Test_Poll_StartVersionOverridesEmptyCursor(t *testing.T) {
	source := &fakeSource{responses: []func() (*gateway.TransactionStreamResponse, error){
		batchOf(5001),
	}}
	p, _ := newTestPoller(source, &PollerConfig{StartVersion: 5000})

	_, err := p.Poll(context.Background(), noopHandler)
	assert.Nil(t, err)
	assert.Equal(t, []uint64{5000}, source.fromSeen)
}

func Test_Poll_BackoffDoublesAndIsBounded(t *testing.T) {
	source := &fakeSource{responses: []func() (*gateway.TransactionStreamResponse, error){
		failWith(gateway.ErrRateLimited),
	}}
	p, _ := newTestPoller(source, &PollerConfig{
		BackoffFloor:   time.Second,
		BackoffCeiling: 30 * time.Second,
	})

	expected := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second,
	}
	for _, want := range expected {
		n, err := p.Poll(context.Background(), noopHandler)
		assert.Nil(t, err)
		assert.Zero(t, n)
		assert.Equal(t, want, p.backoff)
	}
}

func Test_Poll_SuccessResetsBackoff(t *testing.T) {
	source := &fakeSource{responses: []func() (*gateway.TransactionStreamResponse, error){
		failWith(gateway.ErrBeyondLedgerEnd),
		failWith(gateway.ErrBeyondLedgerEnd),
		batchOf(42),
	}}
	p, _ := newTestPoller(source, &PollerConfig{
		BackoffFloor:   time.Second,
		BackoffCeiling: 30 * time.Second,
	})

	ctx := context.Background()
	_, _ = p.Poll(ctx, noopHandler)
	_, _ = p.Poll(ctx, noopHandler)
	assert.Equal(t, 2*time.Second, p.backoff)

	n, err := p.Poll(ctx, noopHandler)
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, p.backoff)
}

func Test_Poll_HandlerFailureDoesNotAdvanceCursor(t *testing.T) {
	source := &fakeSource{responses: []func() (*gateway.TransactionStreamResponse, error){
		batchOf(200),
	}}
	p, cursors := newTestPoller(source, &PollerConfig{})

	n, err := p.Poll(context.Background(), func(ctx context.Context, batch *gateway.TransactionStreamResponse) error {
		return errors.New("persist failed")
	})
	assert.Nil(t, err)
	assert.Zero(t, n)

	cursor, err := cursors.Get(context.Background())
	assert.Nil(t, err)
	assert.Zero(t, cursor)
	assert.True(t, p.backoff > 0)
}

func Test_Run_StopsOnContextCancel(t *testing.T) {
	source := &fakeSource{responses: []func() (*gateway.TransactionStreamResponse, error){
		failWith(gateway.ErrBeyondLedgerEnd),
	}}
	p, _ := newTestPoller(source, &PollerConfig{
		BackoffFloor:   10 * time.Millisecond,
		BackoffCeiling: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, noopHandler)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
