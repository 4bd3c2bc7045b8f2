// Package transactionParser normalizes raw gateway transactions into the shape
// the rest of the pipeline works with. Parsing is pure, no IO.
package transactionParser

import (
	"regexp"
	"time"

	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ParsedEvent pairs a detailed event with its index in the transaction. The
// index is part of the event's identity throughout staging and processing.
type ParsedEvent struct {
	Index int
	Event gateway.DetailedEvent
}

type ParsedTransaction struct {
	TransactionID string
	StateVersion  uint64
	Timestamp     time.Time
	Events        []ParsedEvent

	// EntityAddresses are the account addresses touched by fungible balance
	// or fee balance changes, deduplicated.
	EntityAddresses []string

	// FeeBalanceChanges maps account address to its total fee delta. Fee
	// deltas are negative for payers.
	FeeBalanceChanges map[string]decimal.Decimal

	// BalanceChanges sums fungible deltas per resource across all account
	// entities in the transaction.
	BalanceChanges map[string]decimal.Decimal

	// ReferencedComponents are the component addresses named in the manifest,
	// in first-appearance order without duplicates.
	ReferencedComponents []string
}

// HighestFeePayer returns the account that paid the largest fee in this
// transaction. ok is false when no account paid a fee.
func (t *ParsedTransaction) HighestFeePayer() (string, decimal.Decimal, bool) {
	var payer string
	var highest decimal.Decimal
	found := false
	for address, delta := range t.FeeBalanceChanges {
		fee := delta.Abs()
		if !found || fee.GreaterThan(highest) {
			payer = address
			highest = fee
			found = true
		}
	}
	return payer, highest, found
}

var componentAddressRegex = regexp.MustCompile(`component_[a-z0-9_]+`)

type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(l *zap.Logger) *Normalizer {
	return &Normalizer{logger: l}
}

// Normalize converts one committed transaction. Returns nil for transactions
// that cannot carry incentive activity (missing intent hash or balance
// changes).
func (n *Normalizer) Normalize(tx *gateway.CommittedTransaction) *ParsedTransaction {
	if tx.IntentHash == "" {
		n.logger.Sugar().Debugw("skipping transaction without intent hash",
			zap.Uint64("stateVersion", tx.StateVersion),
		)
		return nil
	}
	if tx.BalanceChanges == nil {
		n.logger.Sugar().Debugw("skipping transaction without balance changes",
			zap.String("transactionId", tx.IntentHash),
		)
		return nil
	}

	parsed := &ParsedTransaction{
		TransactionID:     tx.IntentHash,
		StateVersion:      tx.StateVersion,
		Timestamp:         tx.RoundTimestamp,
		FeeBalanceChanges: make(map[string]decimal.Decimal),
		BalanceChanges:    make(map[string]decimal.Decimal),
	}

	for i, event := range tx.DetailedEvents {
		parsed.Events = append(parsed.Events, ParsedEvent{Index: i, Event: event})
	}

	seen := make(map[string]bool)
	addEntity := func(address string) {
		if !seen[address] {
			seen[address] = true
			parsed.EntityAddresses = append(parsed.EntityAddresses, address)
		}
	}

	for _, change := range tx.BalanceChanges.FungibleBalanceChanges {
		if !isAccountAddress(change.EntityAddress) {
			continue
		}
		delta, err := decimal.NewFromString(change.BalanceChange)
		if err != nil {
			n.logger.Sugar().Errorw("non-numeric balance change",
				zap.String("transactionId", tx.IntentHash),
				zap.String("entityAddress", change.EntityAddress),
				zap.String("balanceChange", change.BalanceChange),
			)
			continue
		}
		addEntity(change.EntityAddress)
		parsed.BalanceChanges[change.ResourceAddress] = parsed.BalanceChanges[change.ResourceAddress].Add(delta)
	}

	for _, change := range tx.BalanceChanges.FungibleFeeBalanceChanges {
		if !isAccountAddress(change.EntityAddress) {
			continue
		}
		delta, err := decimal.NewFromString(change.BalanceChange)
		if err != nil {
			n.logger.Sugar().Errorw("non-numeric fee balance change",
				zap.String("transactionId", tx.IntentHash),
				zap.String("entityAddress", change.EntityAddress),
				zap.String("balanceChange", change.BalanceChange),
			)
			continue
		}
		addEntity(change.EntityAddress)
		parsed.FeeBalanceChanges[change.EntityAddress] = parsed.FeeBalanceChanges[change.EntityAddress].Add(delta)
		parsed.BalanceChanges[change.ResourceAddress] = parsed.BalanceChanges[change.ResourceAddress].Add(delta)
	}

	parsed.ReferencedComponents = extractComponentAddresses(tx.ManifestInstructions)

	return parsed
}

// NormalizeBatch converts a page of transactions, dropping the ones Normalize
// rejects.
func (n *Normalizer) NormalizeBatch(txs []gateway.CommittedTransaction) []*ParsedTransaction {
	out := make([]*ParsedTransaction, 0, len(txs))
	for i := range txs {
		if parsed := n.Normalize(&txs[i]); parsed != nil {
			out = append(out, parsed)
		}
	}
	return out
}

// extractComponentAddresses pulls component addresses out of the manifest
// text, preserving first-appearance order and dropping duplicates.
func extractComponentAddresses(manifest string) []string {
	if manifest == "" {
		return nil
	}
	matches := componentAddressRegex.FindAllString(manifest, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func isAccountAddress(address string) bool {
	return len(address) > 8 && address[:8] == "account_"
}
