package tradingVolume

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const c9XrdXusdcComponent = "component_rdx1cr6lxkr83gzhmyg4uxg49wkug5s4wwc3c7cgmhxuczxraa09a97wcu"

type fakePrices struct {
	prices map[string]decimal.Decimal
}

func (f *fakePrices) GetUsdPrice(_ context.Context, resourceAddress string, _ time.Time) (decimal.Decimal, error) {
	price, ok := f.prices[resourceAddress]
	if !ok {
		return decimal.Zero, tokenPrice.ErrPriceNotFound
	}
	return price, nil
}

func (f *fakePrices) GetUsdValue(ctx context.Context, resourceAddress string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	price, err := f.GetUsdPrice(ctx, resourceAddress, at)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(price), nil
}

func swapEvent(component string, payload any, ts time.Time) *eventMatcher.MatchedEvent {
	data, _ := json.Marshal(payload)
	return &eventMatcher.MatchedEvent{
		DApp:          "Caviarnine",
		Category:      "DEX",
		TransactionID: "txid_rdx1swap",
		Timestamp:     ts,
		GlobalEmitter: component,
		EventName:     "SwapEvent",
		EventType:     "SwapEvent",
		Data:          data,
	}
}

func feePayingTx(ts time.Time) *transactionParser.ParsedTransaction {
	return &transactionParser.ParsedTransaction{
		TransactionID: "txid_rdx1swap",
		Timestamp:     ts,
		FeeBalanceChanges: map[string]decimal.Decimal{
			"account_rdx1trader": decimal.RequireFromString("-1.2"),
			"account_rdx1other":  decimal.RequireFromString("-0.3"),
		},
	}
}

func Test_Calculate_PrecisionPoolSwap(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	prices := &fakePrices{prices: map[string]decimal.Decimal{
		protocols.XRD: decimal.NewFromInt(1),
	}}
	c := NewCalculator(prices, metrics.NewNoopMetricsClient(), logger.NewNoopLogger())

	rows, err := c.Calculate(context.Background(), feePayingTx(ts), []*eventMatcher.MatchedEvent{
		swapEvent(c9XrdXusdcComponent, &eventMatcher.PrecisionPoolSwapPayload{
			AmountChangeX: "-250",
			AmountChangeY: "24.7",
		}, ts),
	})
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "c9_trade_xrd-xusdc", rows[0].ActivityID)
	assert.Equal(t, "account_rdx1trader", rows[0].AccountAddress)
	assert.Equal(t, "250.00", rows[0].UsdValue.StringFixed(2))
	assert.Equal(t, ts, rows[0].Timestamp)
}

func Test_Calculate_DefiPlazaSwapQuoteSide(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	pool := protocols.DefiPlazaXUSDCPool
	prices := &fakePrices{prices: map[string]decimal.Decimal{
		pool.QuoteResourceAddress: decimal.RequireFromString("0.025"),
	}}
	c := NewCalculator(prices, metrics.NewNoopMetricsClient(), logger.NewNoopLogger())

	event := swapEvent(pool.ComponentAddress, &eventMatcher.DefiPlazaSwapPayload{
		BaseAmount:  "10",
		QuoteAmount: "-400.128",
	}, ts)
	event.DApp = "DefiPlaza"

	rows, err := c.Calculate(context.Background(), feePayingTx(ts), []*eventMatcher.MatchedEvent{event})
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "defiPlaza_trade_xrd-xusdc", rows[0].ActivityID)
	// 400.128 * 0.025 = 10.0032, rounded to 2dp
	assert.Equal(t, "10.00", rows[0].UsdValue.StringFixed(2))
}

func Test_Calculate_IgnoresUnmappedPools(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCalculator(&fakePrices{}, metrics.NewNoopMetricsClient(), logger.NewNoopLogger())

	rows, err := c.Calculate(context.Background(), feePayingTx(ts), []*eventMatcher.MatchedEvent{
		swapEvent(protocols.CaviarNineHLP.ComponentAddress, &eventMatcher.PrecisionPoolSwapPayload{
			AmountChangeX: "-10",
			AmountChangeY: "9",
		}, ts),
	})
	assert.Nil(t, err)
	assert.Empty(t, rows)
}

func Test_Calculate_NoFeePayerDropsVolume(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	prices := &fakePrices{prices: map[string]decimal.Decimal{
		protocols.XRD: decimal.NewFromInt(1),
	}}
	c := NewCalculator(prices, metrics.NewNoopMetricsClient(), logger.NewNoopLogger())

	tx := &transactionParser.ParsedTransaction{
		TransactionID: "txid_rdx1swap",
		Timestamp:     ts,
	}
	rows, err := c.Calculate(context.Background(), tx, []*eventMatcher.MatchedEvent{
		swapEvent(c9XrdXusdcComponent, &eventMatcher.PrecisionPoolSwapPayload{
			AmountChangeX: "-250",
			AmountChangeY: "24.7",
		}, ts),
	})
	assert.Nil(t, err)
	assert.Empty(t, rows)
}

func Test_Calculate_SumsPerActivity(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	prices := &fakePrices{prices: map[string]decimal.Decimal{
		protocols.XRD:   decimal.NewFromInt(1),
		protocols.XUSDC: decimal.NewFromInt(1),
	}}
	c := NewCalculator(prices, metrics.NewNoopMetricsClient(), logger.NewNoopLogger())

	rows, err := c.Calculate(context.Background(), feePayingTx(ts), []*eventMatcher.MatchedEvent{
		swapEvent(c9XrdXusdcComponent, &eventMatcher.PrecisionPoolSwapPayload{
			AmountChangeX: "-100",
			AmountChangeY: "9.9",
		}, ts),
		swapEvent(c9XrdXusdcComponent, &eventMatcher.PrecisionPoolSwapPayload{
			AmountChangeX: "5",
			AmountChangeY: "-0.505",
		}, ts),
	})
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	// 100 XRD in plus 0.505 xUSDC in
	assert.Equal(t, "100.51", rows[0].UsdValue.StringFixed(2))
}
