// Package points calculates weekly activity points and season multipliers
// from trading volume and balance snapshot history.
package points

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/rdx-works/incentives-sidecar/pkg/twa"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// accountPageSize bounds how many accounts one scan page loads.
	accountPageSize = 10_000
	// upsertChunkSize bounds how many rows one upsert statement writes.
	upsertChunkSize = 1_000
)

type Calculator struct {
	store   storage.IncentivesStore
	prices  tokenPrice.PriceSource
	engine  *twa.Engine
	logger  *zap.Logger
	metrics metricsTypes.IMetricsClient
}

func NewCalculator(
	store storage.IncentivesStore,
	prices tokenPrice.PriceSource,
	metricsClient metricsTypes.IMetricsClient,
	l *zap.Logger,
) *Calculator {
	return &Calculator{
		store:   store,
		prices:  prices,
		engine:  twa.NewEngine(),
		logger:  l,
		metrics: metricsClient,
	}
}

// HandlePointsActivity is the asynq handler for points:activity tasks. It
// recomputes the week's per-activity points for every registered account.
func (c *Calculator) HandlePointsActivity(ctx context.Context, task *asynq.Task) error {
	payload := &queue.PointsPayload{}
	if err := json.Unmarshal(task.Payload(), payload); err != nil {
		return errors.Wrap(err, "failed to decode points payload")
	}

	week, err := c.store.GetWeek(ctx, payload.WeekID)
	if err != nil {
		return err
	}
	if week == nil {
		return errors.Errorf("week '%d' does not exist", payload.WeekID)
	}

	start := time.Now()
	if err := c.calculateTradingPoints(ctx, week); err != nil {
		return err
	}
	if err := c.calculateBalancePoints(ctx, week); err != nil {
		return err
	}

	_ = c.metrics.Timing(metricsTypes.Metric_Timing_PointsCalcDuration, time.Since(start), []metricsTypes.MetricsLabel{
		{Name: "weekId", Value: strconv.FormatUint(week.WeekID, 10)},
	})
	c.logger.Sugar().Infow("recalculated activity points",
		zap.Uint64("weekId", week.WeekID),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// calculateTradingPoints awards one point per USD of attributed trading
// volume, per trading activity.
func (c *Calculator) calculateTradingPoints(ctx context.Context, week *storage.Week) error {
	activityIds := make(map[string]bool)
	for _, activityId := range protocols.TradingPoolActivities {
		activityIds[activityId] = true
	}
	sorted := make([]string, 0, len(activityIds))
	for activityId := range activityIds {
		sorted = append(sorted, activityId)
	}
	sort.Strings(sorted)

	for _, activityId := range sorted {
		volumes, err := c.store.SumTradingVolumeByAccount(ctx, activityId, week.StartDate, week.EndDate)
		if err != nil {
			return err
		}

		rows := make([]*storage.AccountActivityPoints, 0, len(volumes))
		for accountAddress, total := range volumes {
			rows = append(rows, &storage.AccountActivityPoints{
				AccountAddress: accountAddress,
				WeekID:         week.WeekID,
				ActivityID:     activityId,
				Points:         total.Round(2),
				UpdatedAt:      time.Now(),
			})
		}
		if err := c.upsertPointsChunked(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}

// calculateBalancePoints awards points for every balance based activity.
// Holding XRD scores its average USD value over the week; lending and
// liquidity positions score their USD value multiplied by the minutes the
// position was held.
func (c *Calculator) calculateBalancePoints(ctx context.Context, week *storage.Week) error {
	rows := make([]*storage.AccountActivityPoints, 0)

	err := c.forEachAccount(ctx, func(account *storage.Account) error {
		byActivity, err := c.loadActivitySamples(ctx, account.AccountAddress, week)
		if err != nil {
			return err
		}

		activityIds := make([]string, 0, len(byActivity))
		for activityId := range byActivity {
			activityIds = append(activityIds, activityId)
		}
		sort.Strings(activityIds)

		for _, activityId := range activityIds {
			mode := twa.ModeDurationWeighted
			if activityId == protocols.HoldActivityID {
				mode = twa.ModeAverage
			}
			points := c.engine.Calculate(byActivity[activityId], week.StartDate, week.EndDate, mode)
			if points.IsZero() {
				continue
			}
			rows = append(rows, &storage.AccountActivityPoints{
				AccountAddress: account.AccountAddress,
				WeekID:         week.WeekID,
				ActivityID:     activityId,
				Points:         points.Round(2),
				UpdatedAt:      time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.upsertPointsChunked(ctx, rows)
}

// HandlePointsMultiplier is the asynq handler for points:multiplier tasks. It
// derives the season multiplier of every user from the combined time weighted
// XRD balance of the user's registered accounts over the week.
func (c *Calculator) HandlePointsMultiplier(ctx context.Context, task *asynq.Task) error {
	payload := &queue.PointsPayload{}
	if err := json.Unmarshal(task.Payload(), payload); err != nil {
		return errors.Wrap(err, "failed to decode points payload")
	}

	week, err := c.store.GetWeek(ctx, payload.WeekID)
	if err != nil {
		return err
	}
	if week == nil {
		return errors.Errorf("week '%d' does not exist", payload.WeekID)
	}

	xrdPrice, err := c.weekXrdPrice(ctx, week)
	if err != nil {
		return err
	}

	totals := make(map[string]decimal.Decimal)
	userIds := make([]string, 0)
	err = c.forEachAccount(ctx, func(account *storage.Account) error {
		samples, err := c.loadMultiplierSamples(ctx, account.AccountAddress, week, xrdPrice)
		if err != nil {
			return err
		}

		balance := c.engine.Calculate(samples, week.StartDate, week.EndDate, twa.ModeAverage)
		if _, ok := totals[account.UserID]; !ok {
			userIds = append(userIds, account.UserID)
		}
		totals[account.UserID] = totals[account.UserID].Add(balance)
		return nil
	})
	if err != nil {
		return err
	}

	multipliers := make([]*storage.SeasonPointsMultiplier, 0, len(userIds))
	for _, userId := range userIds {
		balance := totals[userId]
		multipliers = append(multipliers, &storage.SeasonPointsMultiplier{
			UserID:          userId,
			WeekID:          week.WeekID,
			TotalTWABalance: balance,
			Multiplier:      Multiplier(balance),
			UpdatedAt:       time.Now(),
		})
	}

	for start := 0; start < len(multipliers); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(multipliers))
		if err := c.store.UpsertSeasonPointsMultipliers(ctx, multipliers[start:end]); err != nil {
			return err
		}
	}
	c.logger.Sugar().Infow("recalculated season multipliers",
		zap.Uint64("weekId", week.WeekID),
		zap.Int("userCount", len(multipliers)),
	)
	return nil
}

// weekXrdPrice returns the USD price of XRD used to express multiplier
// balances in XRD terms. For a week still in progress the price is taken at
// the current time, otherwise at the week end.
func (c *Calculator) weekXrdPrice(ctx context.Context, week *storage.Week) (decimal.Decimal, error) {
	at := week.EndDate
	if now := time.Now(); now.Before(at) {
		at = now
	}
	price, err := c.prices.GetUsdPrice(ctx, protocols.XRD, at)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to load the XRD price for the multiplier")
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.Errorf("XRD price at %s is not positive", at.UTC().Format(time.RFC3339))
	}
	return price, nil
}

// loadMultiplierSamples builds the XRD denominated holding series of one
// account over a week, including the opening position. LSULP counts at its
// market value converted at the XRD price rather than one to one.
func (c *Calculator) loadMultiplierSamples(
	ctx context.Context,
	accountAddress string,
	week *storage.Week,
	xrdPrice decimal.Decimal,
) ([]twa.Sample, error) {
	opening, err := c.store.GetOpeningBalances(ctx, accountAddress, week.StartDate)
	if err != nil {
		return nil, err
	}
	openingTotal := decimal.Zero
	hasOpening := false
	for _, balance := range opening {
		if !protocols.XrdDerivatives[balance.ResourceAddress] {
			continue
		}
		openingTotal = openingTotal.Add(balance.UsdValue.Div(xrdPrice))
		hasOpening = true
	}

	inWeek, err := c.store.ListAccountBalancesBetween(ctx, accountAddress, week.StartDate, week.EndDate)
	if err != nil {
		return nil, err
	}

	// rows share a timestamp per snapshot, so group and sum per timestamp
	totals := make(map[time.Time]decimal.Decimal)
	timestamps := make([]time.Time, 0)
	for _, balance := range inWeek {
		if !protocols.XrdDerivatives[balance.ResourceAddress] {
			continue
		}
		if _, ok := totals[balance.Timestamp]; !ok {
			timestamps = append(timestamps, balance.Timestamp)
		}
		totals[balance.Timestamp] = totals[balance.Timestamp].Add(balance.UsdValue.Div(xrdPrice))
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	samples := make([]twa.Sample, 0, len(timestamps)+1)
	if hasOpening {
		samples = append(samples, twa.Sample{Timestamp: week.StartDate, Value: openingTotal})
	}
	for _, timestamp := range timestamps {
		samples = append(samples, twa.Sample{Timestamp: timestamp, Value: totals[timestamp]})
	}
	return samples, nil
}

// loadActivitySamples builds the USD valued sample series of one account per
// balance activity, including the opening positions. Snapshot rows written
// before the activity tag existed fall back to the resource mapping.
func (c *Calculator) loadActivitySamples(
	ctx context.Context,
	accountAddress string,
	week *storage.Week,
) (map[string][]twa.Sample, error) {
	opening, err := c.store.GetOpeningBalances(ctx, accountAddress, week.StartDate)
	if err != nil {
		return nil, err
	}
	inWeek, err := c.store.ListAccountBalancesBetween(ctx, accountAddress, week.StartDate, week.EndDate)
	if err != nil {
		return nil, err
	}

	openingTotals := make(map[string]decimal.Decimal)
	for _, balance := range opening {
		activityId := balanceActivity(balance)
		if activityId == "" {
			continue
		}
		openingTotals[activityId] = openingTotals[activityId].Add(balance.UsdValue)
	}

	// rows share a timestamp per snapshot, so group and sum per timestamp
	totals := make(map[string]map[time.Time]decimal.Decimal)
	timestamps := make(map[string][]time.Time)
	for _, balance := range inWeek {
		activityId := balanceActivity(balance)
		if activityId == "" {
			continue
		}
		if totals[activityId] == nil {
			totals[activityId] = make(map[time.Time]decimal.Decimal)
		}
		if _, ok := totals[activityId][balance.Timestamp]; !ok {
			timestamps[activityId] = append(timestamps[activityId], balance.Timestamp)
		}
		totals[activityId][balance.Timestamp] = totals[activityId][balance.Timestamp].Add(balance.UsdValue)
	}

	out := make(map[string][]twa.Sample)
	for activityId, total := range openingTotals {
		out[activityId] = append(out[activityId], twa.Sample{Timestamp: week.StartDate, Value: total})
	}
	for activityId, series := range timestamps {
		sort.Slice(series, func(i, j int) bool { return series[i].Before(series[j]) })
		for _, timestamp := range series {
			out[activityId] = append(out[activityId], twa.Sample{
				Timestamp: timestamp,
				Value:     totals[activityId][timestamp],
			})
		}
	}
	return out, nil
}

func balanceActivity(balance *storage.AccountBalance) string {
	if balance.ActivityID != "" {
		return balance.ActivityID
	}
	return protocols.BalanceActivities[balance.ResourceAddress]
}

// forEachAccount pages through the registered accounts.
func (c *Calculator) forEachAccount(ctx context.Context, fn func(*storage.Account) error) error {
	offset := 0
	for {
		accounts, err := c.store.ListRegisteredAccounts(ctx, offset, accountPageSize)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			if err := fn(account); err != nil {
				return err
			}
		}
		if len(accounts) < accountPageSize {
			return nil
		}
		offset += accountPageSize
	}
}

func (c *Calculator) upsertPointsChunked(ctx context.Context, rows []*storage.AccountActivityPoints) error {
	for start := 0; start < len(rows); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(rows))
		if err := c.store.UpsertAccountActivityPoints(ctx, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
