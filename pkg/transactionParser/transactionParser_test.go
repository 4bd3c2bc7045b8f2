package transactionParser

import (
	"testing"
	"time"

	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(logger.NewNoopLogger())
}

func Test_Normalize(t *testing.T) {
	n := newTestNormalizer()
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tx := &gateway.CommittedTransaction{
		IntentHash:     "txid_rdx1abc",
		StateVersion:   100,
		RoundTimestamp: ts,
		ManifestInstructions: `
			CALL_METHOD Address("component_rdx1pool") "swap";
			CALL_METHOD Address("component_rdx1other") "deposit";
			CALL_METHOD Address("component_rdx1pool") "swap";
		`,
		BalanceChanges: &gateway.TransactionBalanceChanges{
			FungibleBalanceChanges: []gateway.BalanceChange{
				{EntityAddress: "account_rdx1alice", ResourceAddress: "resource_rdx1xrd", BalanceChange: "-250"},
				{EntityAddress: "component_rdx1pool", ResourceAddress: "resource_rdx1xrd", BalanceChange: "250"},
			},
			FungibleFeeBalanceChanges: []gateway.BalanceChange{
				{EntityAddress: "account_rdx1alice", ResourceAddress: "resource_rdx1xrd", BalanceChange: "-1.5"},
			},
		},
		DetailedEvents: []gateway.DetailedEvent{
			{Identifier: gateway.EventIdentifier{Event: "SwapEvent"}},
			{Identifier: gateway.EventIdentifier{Event: "WithdrawEvent"}},
		},
	}

	parsed := n.Normalize(tx)
	assert.NotNil(t, parsed)
	assert.Equal(t, "txid_rdx1abc", parsed.TransactionID)
	assert.Equal(t, uint64(100), parsed.StateVersion)
	assert.Equal(t, ts, parsed.Timestamp)

	assert.Len(t, parsed.Events, 2)
	assert.Equal(t, 0, parsed.Events[0].Index)
	assert.Equal(t, "SwapEvent", parsed.Events[0].Event.Identifier.Event)

	// only account_ entities appear, component deltas are ignored
	assert.Equal(t, []string{"account_rdx1alice"}, parsed.EntityAddresses)
	assert.True(t, parsed.FeeBalanceChanges["account_rdx1alice"].Equal(decimal.RequireFromString("-1.5")))
	assert.True(t, parsed.BalanceChanges["resource_rdx1xrd"].Equal(decimal.RequireFromString("-251.5")))

	// order preserving, deduplicated
	assert.Equal(t, []string{"component_rdx1pool", "component_rdx1other"}, parsed.ReferencedComponents)
}

func Test_Normalize_DropsUnusable(t *testing.T) {
	n := newTestNormalizer()

	assert.Nil(t, n.Normalize(&gateway.CommittedTransaction{
		StateVersion:   1,
		BalanceChanges: &gateway.TransactionBalanceChanges{},
	}))
	assert.Nil(t, n.Normalize(&gateway.CommittedTransaction{
		IntentHash:   "txid_rdx1nochanges",
		StateVersion: 2,
	}))
}

func Test_HighestFeePayer(t *testing.T) {
	parsed := &ParsedTransaction{
		FeeBalanceChanges: map[string]decimal.Decimal{
			"account_rdx1alice": decimal.RequireFromString("-0.8"),
			"account_rdx1bob":   decimal.RequireFromString("-2.1"),
		},
	}

	payer, fee, ok := parsed.HighestFeePayer()
	assert.True(t, ok)
	assert.Equal(t, "account_rdx1bob", payer)
	assert.True(t, fee.Equal(decimal.RequireFromString("2.1")))

	_, _, ok = (&ParsedTransaction{FeeBalanceChanges: map[string]decimal.Decimal{}}).HighestFeePayer()
	assert.False(t, ok)
}

func Test_NormalizeBatch(t *testing.T) {
	n := newTestNormalizer()
	txs := []gateway.CommittedTransaction{
		{IntentHash: "txid_rdx1a", BalanceChanges: &gateway.TransactionBalanceChanges{}},
		{StateVersion: 5},
		{IntentHash: "txid_rdx1b", BalanceChanges: &gateway.TransactionBalanceChanges{}},
	}

	out := n.NormalizeBatch(txs)
	assert.Len(t, out, 2)
	assert.Equal(t, "txid_rdx1a", out[0].TransactionID)
	assert.Equal(t, "txid_rdx1b", out[1].TransactionID)
}
