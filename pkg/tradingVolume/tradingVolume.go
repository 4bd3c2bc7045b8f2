// Package tradingVolume turns captured swap events into USD trading volume
// rows. Volume is measured on the input side of the swap, valued at the event
// timestamp and attributed to the transaction's highest fee payer.
package tradingVolume

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Calculator struct {
	prices  tokenPrice.PriceSource
	logger  *zap.Logger
	metrics metricsTypes.IMetricsClient
}

func NewCalculator(prices tokenPrice.PriceSource, metricsClient metricsTypes.IMetricsClient, l *zap.Logger) *Calculator {
	return &Calculator{
		prices:  prices,
		logger:  l,
		metrics: metricsClient,
	}
}

// Calculate builds the trading volume rows for one transaction. Swaps on
// pools outside the trading program contribute nothing, and a transaction
// without an identifiable fee payer is dropped since there is nobody to
// attribute the volume to.
func (c *Calculator) Calculate(
	ctx context.Context,
	tx *transactionParser.ParsedTransaction,
	matched []*eventMatcher.MatchedEvent,
) ([]*storage.TradingVolume, error) {
	totals := make(map[string]decimal.Decimal)

	for _, event := range matched {
		if event.EventType != "SwapEvent" {
			continue
		}
		activityId, ok := protocols.TradingPoolActivities[event.GlobalEmitter]
		if !ok {
			continue
		}

		resourceAddress, amount, err := inputSide(event)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read swap payload of '%s'", tx.TransactionID)
		}

		usdValue, err := c.prices.GetUsdValue(ctx, resourceAddress, amount, event.Timestamp)
		if err != nil {
			if errors.Is(err, tokenPrice.ErrPriceNotFound) {
				c.logger.Sugar().Warnw("no price for swap input token",
					zap.String("resourceAddress", resourceAddress),
					zap.String("transactionId", tx.TransactionID),
				)
				continue
			}
			return nil, err
		}
		totals[activityId] = totals[activityId].Add(usdValue)
	}

	if len(totals) == 0 {
		return nil, nil
	}

	payer, _, ok := tx.HighestFeePayer()
	if !ok {
		c.logger.Sugar().Debugw("swap transaction has no account fee payer",
			zap.String("transactionId", tx.TransactionID),
		)
		return nil, nil
	}

	activityIds := make([]string, 0, len(totals))
	for activityId := range totals {
		activityIds = append(activityIds, activityId)
	}
	sort.Strings(activityIds)

	rows := make([]*storage.TradingVolume, 0, len(activityIds))
	for _, activityId := range activityIds {
		rows = append(rows, &storage.TradingVolume{
			TransactionID:  tx.TransactionID,
			ActivityID:     activityId,
			AccountAddress: payer,
			UsdValue:       totals[activityId].Round(2),
			Timestamp:      tx.Timestamp,
		})
	}
	_ = c.metrics.Incr(metricsTypes.Metric_Incr_TradingVolumeRow, nil, float64(len(rows)))
	return rows, nil
}

// inputSide returns the resource and absolute amount the trader paid into the
// pool. The input side of a swap is the one with the negative amount change.
func inputSide(event *eventMatcher.MatchedEvent) (string, decimal.Decimal, error) {
	if pool, ok := protocols.GetShapeLiquidityPoolByComponent(event.GlobalEmitter); ok {
		payload := &eventMatcher.PrecisionPoolSwapPayload{}
		if err := json.Unmarshal(event.Data, payload); err != nil {
			return "", decimal.Zero, err
		}
		amountX, err := decimal.NewFromString(payload.AmountChangeX)
		if err != nil {
			return "", decimal.Zero, err
		}
		amountY, err := decimal.NewFromString(payload.AmountChangeY)
		if err != nil {
			return "", decimal.Zero, err
		}
		if amountX.IsNegative() {
			return pool.TokenX, amountX.Abs(), nil
		}
		return pool.TokenY, amountY.Abs(), nil
	}

	if pool, ok := protocols.GetDefiPlazaPoolByComponent(event.GlobalEmitter); ok {
		payload := &eventMatcher.DefiPlazaSwapPayload{}
		if err := json.Unmarshal(event.Data, payload); err != nil {
			return "", decimal.Zero, err
		}
		baseAmount, err := decimal.NewFromString(payload.BaseAmount)
		if err != nil {
			return "", decimal.Zero, err
		}
		quoteAmount, err := decimal.NewFromString(payload.QuoteAmount)
		if err != nil {
			return "", decimal.Zero, err
		}
		if baseAmount.IsNegative() {
			return pool.BaseResourceAddress, baseAmount.Abs(), nil
		}
		return pool.QuoteResourceAddress, quoteAmount.Abs(), nil
	}

	return "", decimal.Zero, errors.Errorf("component '%s' has no known pool layout", event.GlobalEmitter)
}
