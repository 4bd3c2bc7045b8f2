package gateway

import (
	"encoding/json"
	"time"
)

// LedgerState identifies the point in ledger history a response was served at.
type LedgerState struct {
	StateVersion uint64    `json:"state_version"`
	Epoch        uint64    `json:"epoch"`
	Timestamp    time.Time `json:"proposer_round_timestamp"`
}

// EventIdentifier names the package, blueprint and event type an event was
// emitted from.
type EventIdentifier struct {
	Package   string `json:"package"`
	Blueprint string `json:"blueprint"`
	Event     string `json:"event"`
}

type EventEmitter struct {
	Type          string `json:"type"`
	GlobalEmitter string `json:"global_emitter"`
	MethodEmitter string `json:"method_emitter"`
	OuterEmitter  string `json:"outer_emitter,omitempty"`
}

// DetailedEvent is one event emitted during transaction execution. Payload is
// the programmatic JSON rendering of the SBOR value and is decoded lazily by
// the protocol matchers.
type DetailedEvent struct {
	Identifier EventIdentifier `json:"identifier"`
	Emitter    EventEmitter    `json:"emitter"`
	Payload    json.RawMessage `json:"payload"`
}

type BalanceChange struct {
	EntityAddress   string `json:"entity_address"`
	ResourceAddress string `json:"resource_address"`
	BalanceChange   string `json:"balance_change"`
}

type TransactionBalanceChanges struct {
	FungibleBalanceChanges    []BalanceChange `json:"fungible_balance_changes"`
	FungibleFeeBalanceChanges []BalanceChange `json:"fungible_fee_balance_changes"`
}

// CommittedTransaction is one committed ledger transaction as returned by the
// transaction stream endpoint, with the opt-ins this sidecar requests.
type CommittedTransaction struct {
	IntentHash           string                     `json:"intent_hash"`
	StateVersion         uint64                     `json:"state_version"`
	RoundTimestamp       time.Time                  `json:"round_timestamp"`
	ManifestInstructions string                     `json:"manifest_instructions"`
	BalanceChanges       *TransactionBalanceChanges `json:"balance_changes"`
	DetailedEvents       []DetailedEvent            `json:"detailed_events"`
}

type TransactionStreamResponse struct {
	LedgerState LedgerState            `json:"ledger_state"`
	Items       []CommittedTransaction `json:"items"`
}

type NonFungibleLocation struct {
	NonFungibleId                    string  `json:"non_fungible_id"`
	IsBurned                         bool    `json:"is_burned"`
	OwningVaultGlobalAncestorAddress *string `json:"owning_vault_global_ancestor_address"`
	OwningVaultParentAncestorAddress *string `json:"owning_vault_parent_ancestor_address"`
}

type NonFungibleLocationResponse struct {
	LedgerState    LedgerState           `json:"ledger_state"`
	NonFungibleIds []NonFungibleLocation `json:"non_fungible_ids"`
}

type FungibleResourceBalance struct {
	ResourceAddress string `json:"resource_address"`
	Amount          string `json:"amount"`
}

type EntityFungiblesResponse struct {
	LedgerState LedgerState               `json:"ledger_state"`
	Address     string                    `json:"address"`
	Items       []FungibleResourceBalance `json:"items"`
}

type gatewayStatusResponse struct {
	LedgerState LedgerState `json:"ledger_state"`
}

type gatewayErrorResponse struct {
	Message string `json:"message"`
	Details struct {
		Type string `json:"type"`
	} `json:"details"`
}
