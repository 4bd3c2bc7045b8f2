package eventMatcher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"github.com/stretchr/testify/assert"
)

const c9XrdXusdcComponent = "component_rdx1cr6lxkr83gzhmyg4uxg49wkug5s4wwc3c7cgmhxuczxraa09a97wcu"

func newTestRegistry() *Registry {
	return NewDefaultRegistry(metrics.NewNoopMetricsClient(), logger.NewNoopLogger())
}

func parsedEvent(component string, pkg string, name string, payload string) transactionParser.ParsedEvent {
	return transactionParser.ParsedEvent{
		Index: 0,
		Event: gateway.DetailedEvent{
			Identifier: gateway.EventIdentifier{
				Package: pkg,
				Event:   name,
			},
			Emitter: gateway.EventEmitter{
				Type:          "EntityMethod",
				GlobalEmitter: component,
			},
			Payload: json.RawMessage(payload),
		},
	}
}

func parsedTx(events ...transactionParser.ParsedEvent) *transactionParser.ParsedTransaction {
	for i := range events {
		events[i].Index = i
	}
	return &transactionParser.ParsedTransaction{
		TransactionID: "txid_rdx1test",
		StateVersion:  500,
		Timestamp:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Events:        events,
	}
}

func Test_MatchTransaction_CaviarNineSwap(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(parsedEvent(c9XrdXusdcComponent, "package_rdx1c9", "SwapEvent",
		`{"amount_change_x": "-250", "amount_change_y": "24.7"}`))

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "Caviarnine", matched[0].DApp)
	assert.Equal(t, "DEX", matched[0].Category)
	assert.Equal(t, "SwapEvent", matched[0].EventType)
	assert.Equal(t, "txid_rdx1test", matched[0].TransactionID)
	assert.Equal(t, uint64(500), matched[0].StateVersion)
	assert.Equal(t, 0, matched[0].EventIndex)

	payload := &PrecisionPoolSwapPayload{}
	assert.Nil(t, json.Unmarshal(matched[0].Data, payload))
	assert.Equal(t, "-250", payload.AmountChangeX)
}

func Test_MatchTransaction_DecodeFailureSkipsEvent(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(
		parsedEvent(c9XrdXusdcComponent, "package_rdx1c9", "SwapEvent",
			`{"amount_change_x": "not a number"}`),
		parsedEvent(c9XrdXusdcComponent, "package_rdx1c9", "SwapEvent",
			`{"amount_change_x": "-1", "amount_change_y": "2"}`),
	)

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, 1, matched[0].EventIndex)
}

func Test_MatchTransaction_IgnoredAndUnknownEvents(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(
		parsedEvent(c9XrdXusdcComponent, "package_rdx1c9", "ProtocolFeeEvent", `{}`),
		parsedEvent(c9XrdXusdcComponent, "package_rdx1c9", "SomeBrandNewEvent", `{}`),
		parsedEvent("component_rdx1unwatched", "package_rdx1x", "SwapEvent", `{}`),
	)

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Empty(t, matched)
}

func Test_MatchTransaction_WeftFinance(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(parsedEvent(
		protocols.WeftFinance.WeftyV2Component,
		protocols.WeftFinance.PackageAddress,
		"AddCollateralEvent",
		`{"cdp_id": "#17#"}`))

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "WeftFinance", matched[0].DApp)
	assert.Equal(t, "Lending", matched[0].Category)

	payload := &CDPPayload{}
	assert.Nil(t, json.Unmarshal(matched[0].Data, payload))
	id, ok := payload.NonFungibleLocalID()
	assert.True(t, ok)
	assert.Equal(t, "#17#", id)
}

func Test_MatchTransaction_WeftFinance_WrongPackage(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(parsedEvent(
		protocols.WeftFinance.WeftyV2Component,
		"package_rdx1impostor",
		"AddCollateralEvent",
		`{"cdp_id": "#17#"}`))

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Empty(t, matched)
}

func Test_MatchTransaction_RootFinance(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(
		parsedEvent(protocols.RootFinance.LendingMarketComponent, protocols.RootFinance.PackageAddress,
			"CDPUpdatedEvent", `{"cdp_id": "#3#"}`),
		parsedEvent(protocols.RootFinance.LendingMarketComponent, protocols.RootFinance.PackageAddress,
			"LendingPoolUpdatedEvent", `{}`),
	)

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "RootFinance", matched[0].DApp)
	assert.Equal(t, "CDPUpdatedEvent", matched[0].EventType)
}

func Test_MatchTransaction_RootFinance_MissingCdpIdIsDecodeError(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(parsedEvent(
		protocols.RootFinance.LendingMarketComponent,
		protocols.RootFinance.PackageAddress,
		"CDPUpdatedEvent", `{}`))

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Empty(t, matched)
}

func Test_MatchTransaction_CommonWithdrawDeposit(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(
		parsedEvent("account_rdx1alice", "package_rdx1account", "WithdrawEvent",
			`{"resource_address": "`+protocols.XRD+`", "amount": "100"}`),
		parsedEvent("account_rdx1alice", "package_rdx1account", "DepositEvent",
			`{"resource_address": "`+protocols.RootFinance.ReceiptResourceAddress+`", "ids": ["#3#"]}`),
		parsedEvent("account_rdx1alice", "package_rdx1account", "DepositEvent",
			`{"resource_address": "resource_rdx1untracked", "amount": "5"}`),
	)

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 2)

	assert.Equal(t, "Common", matched[0].DApp)
	assert.Equal(t, "WithdrawFungibleEvent", matched[0].EventType)
	fungible := &FungibleMovePayload{}
	assert.Nil(t, json.Unmarshal(matched[0].Data, fungible))
	assert.Equal(t, "account_rdx1alice", fungible.AccountAddress)
	assert.Equal(t, "100", fungible.Amount)

	assert.Equal(t, "DepositNonFungibleEvent", matched[1].EventType)
	nonFungible := &NonFungibleMovePayload{}
	assert.Nil(t, json.Unmarshal(matched[1].Data, nonFungible))
	assert.Equal(t, []string{"#3#"}, nonFungible.NftIds)
}

func Test_MatchTransaction_DefiPlazaSwap(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(parsedEvent(
		protocols.DefiPlazaXUSDCPool.ComponentAddress, "package_rdx1dfp", "SwapEvent",
		`{"base_amount": "-42.5", "quote_amount": "500"}`))

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "DefiPlaza", matched[0].DApp)

	payload := &DefiPlazaSwapPayload{}
	assert.Nil(t, json.Unmarshal(matched[0].Data, payload))
	assert.Equal(t, "-42.5", payload.BaseAmount)
}

func Test_MatchTransaction_HLPSwap(t *testing.T) {
	r := newTestRegistry()

	tx := parsedTx(parsedEvent(
		protocols.CaviarNineHLP.ComponentAddress, "package_rdx1c9", "SwapEvent",
		`{"amount_change_x": "10", "amount_change_y": "-9.99"}`))

	matched, err := r.MatchTransaction(tx)
	assert.Nil(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "HLP", matched[0].DApp)
	assert.Equal(t, "DEX", matched[0].Category)
	assert.Equal(t, "SwapEvent", matched[0].EventType)
}
