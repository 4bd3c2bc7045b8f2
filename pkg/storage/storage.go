// Package storage defines the persistence models and the store interface the
// pipeline, workers and points calculators talk to.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// IncentivesStore is the persistence surface of the sidecar. The postgres
// sub-package provides the production implementation.
type IncentivesStore interface {
	// ingestion
	InsertTransaction(ctx context.Context, tx *Transaction) error
	InsertEvents(ctx context.Context, events []*Event) error
	// InsertTransactionWithEvents stages a transaction and its events
	// atomically.
	InsertTransactionWithEvents(ctx context.Context, tx *Transaction, events []*Event) error
	InsertTransactionFee(ctx context.Context, fee *TransactionFee) error
	UpsertComponentCalls(ctx context.Context, call *ComponentCall) error
	InsertTradingVolumes(ctx context.Context, volumes []*TradingVolume) error

	// staged event lifecycle
	GetEvents(ctx context.Context, keys []EventKey) ([]*Event, error)
	DeleteEvents(ctx context.Context, keys []EventKey) error

	// accounts
	IsRegistered(ctx context.Context, accountAddress string) (bool, error)
	ListRegisteredAccounts(ctx context.Context, offset int, limit int) ([]*Account, error)

	// balances
	InsertAccountBalances(ctx context.Context, balances []*AccountBalance) error
	ListAccountBalancesBetween(ctx context.Context, accountAddress string, start time.Time, end time.Time) ([]*AccountBalance, error)
	GetLatestAccountBalanceBefore(ctx context.Context, accountAddress string, at time.Time) (*AccountBalance, error)
	// GetOpeningBalances returns the latest snapshot per resource strictly
	// before the given time, i.e. what the account held entering a window.
	GetOpeningBalances(ctx context.Context, accountAddress string, at time.Time) ([]*AccountBalance, error)

	// points
	GetWeek(ctx context.Context, weekId uint64) (*Week, error)
	GetActiveWeek(ctx context.Context) (*Week, error)
	UpsertSeasonPointsMultipliers(ctx context.Context, multipliers []*SeasonPointsMultiplier) error
	UpsertAccountActivityPoints(ctx context.Context, points []*AccountActivityPoints) error
	SumTradingVolumeByAccount(ctx context.Context, activityId string, start time.Time, end time.Time) (map[string]decimal.Decimal, error)
}
