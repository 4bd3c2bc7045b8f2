package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one committed ledger transaction that produced at least one
// captured event.
type Transaction struct {
	TransactionID string `gorm:"primaryKey"`
	StateVersion  uint64
	Timestamp     time.Time
	CreatedAt     time.Time
}

// Event is a captured protocol event staged for asynchronous processing. Rows
// are deleted once the event worker has handled them.
type Event struct {
	TransactionID  string `gorm:"primaryKey"`
	EventIndex     int    `gorm:"primaryKey"`
	StateVersion   uint64
	Timestamp      time.Time
	DApp           string
	Category       string
	GlobalEmitter  string
	PackageAddress string
	EventName      string
	EventType      string
	Data           json.RawMessage `gorm:"type:jsonb"`
	CreatedAt      time.Time
}

// EventKey identifies one staged event row.
type EventKey struct {
	TransactionID string
	EventIndex    int
}

func (e *Event) Key() EventKey {
	return EventKey{TransactionID: e.TransactionID, EventIndex: e.EventIndex}
}

// Account is a program participant. Only registered accounts accrue balances
// and points. A user can register several accounts; season multipliers are
// derived per user across all of them.
type Account struct {
	AccountAddress string `gorm:"primaryKey"`
	UserID         string
	CreatedAt      time.Time
}

// Activity is one thing an account can earn points for, e.g.
// 'c9_trade_xrd-xusdc'.
type Activity struct {
	ActivityID  string `gorm:"primaryKey"`
	DApp        string
	Category    string
	Description string
}

// Season groups weeks into a points season.
type Season struct {
	SeasonID  uint64 `gorm:"primaryKey"`
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

// Week is one scoring window of a season.
type Week struct {
	WeekID    uint64 `gorm:"primaryKey"`
	SeasonID  uint64
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

// AccountBalance is one USD-valued holding snapshot, taken whenever an event
// touched the account. ActivityID names the balance based activity the
// holding scores under.
type AccountBalance struct {
	AccountAddress  string    `gorm:"primaryKey"`
	Timestamp       time.Time `gorm:"primaryKey"`
	ResourceAddress string    `gorm:"primaryKey"`
	ActivityID      string
	Amount          decimal.Decimal `gorm:"type:numeric"`
	UsdValue        decimal.Decimal `gorm:"type:numeric"`
}

// SeasonPointsMultiplier is the per-week multiplier derived from a user's
// time weighted XRD balance across all registered accounts.
type SeasonPointsMultiplier struct {
	UserID          string          `gorm:"primaryKey"`
	WeekID          uint64          `gorm:"primaryKey"`
	TotalTWABalance decimal.Decimal `gorm:"type:numeric"`
	Multiplier      decimal.Decimal `gorm:"type:numeric"`
	UpdatedAt       time.Time
}

// AccountActivityPoints is the weekly per-activity score of one account.
type AccountActivityPoints struct {
	AccountAddress string          `gorm:"primaryKey"`
	WeekID         uint64          `gorm:"primaryKey"`
	ActivityID     string          `gorm:"primaryKey"`
	Points         decimal.Decimal `gorm:"type:numeric"`
	UpdatedAt      time.Time
}

// TransactionFee records who paid how much XRD in fees for a transaction.
type TransactionFee struct {
	TransactionID  string `gorm:"primaryKey"`
	AccountAddress string
	Fee            decimal.Decimal `gorm:"type:numeric"`
	Timestamp      time.Time
}

// ComponentCall records which components an account's transaction touched at a
// given timestamp, for engagement tracking.
type ComponentCall struct {
	AccountAddress string          `gorm:"primaryKey"`
	Timestamp      time.Time       `gorm:"primaryKey"`
	Calls          json.RawMessage `gorm:"type:jsonb"`
}

// TradingVolume is the USD volume of one swap transaction attributed to the
// fee payer, per trading activity.
type TradingVolume struct {
	TransactionID  string `gorm:"primaryKey"`
	ActivityID     string `gorm:"primaryKey"`
	AccountAddress string
	UsdValue       decimal.Decimal `gorm:"type:numeric"`
	Timestamp      time.Time
}

func (TradingVolume) TableName() string {
	return "trading_volume"
}
