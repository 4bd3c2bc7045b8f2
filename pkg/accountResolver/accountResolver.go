// Package accountResolver maps captured protocol events to the registered
// account that owns the affected position. Lending events only reference a CDP
// non-fungible, so resolution walks the custody chain of that non-fungible via
// the gateway until it finds a live account vault.
package accountResolver

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"go.uber.org/zap"
)

// maxOwnershipHops bounds the burn-walk. A CDP re-minted through liquidation
// chains more than this deep is treated as unresolvable rather than looping.
const maxOwnershipHops = 100

var ErrUnresolvedOwnership = errors.New("non fungible ownership could not be resolved")

// NonFungibleLocator is the slice of the gateway client the resolver needs.
type NonFungibleLocator interface {
	GetNonFungibleLocation(ctx context.Context, resourceAddress string, nonFungibleId string, atVersion uint64) (*gateway.NonFungibleLocationResponse, error)
}

// AccountStore answers whether an account address is registered for the
// program. Unregistered accounts never earn points.
type AccountStore interface {
	IsRegistered(ctx context.Context, accountAddress string) (bool, error)
}

// ResolvedEvent pairs a captured event with the registered account it belongs
// to. Address is nil when no registered account could be derived; the event
// identity is kept so callers can still account for it.
type ResolvedEvent struct {
	Address       *string
	TransactionID string
	StateVersion  uint64
	Timestamp     time.Time
	EventIndex    int
	DApp          string
	EventType     string
}

type Resolver struct {
	locator  NonFungibleLocator
	accounts AccountStore
	logger   *zap.Logger
}

func NewResolver(locator NonFungibleLocator, accounts AccountStore, l *zap.Logger) *Resolver {
	return &Resolver{
		locator:  locator,
		accounts: accounts,
		logger:   l,
	}
}

// Resolve derives the owning account for each captured event. Resolution
// failures for a single event degrade to a nil address, gateway transport
// errors abort the batch.
func (r *Resolver) Resolve(ctx context.Context, events []*eventMatcher.MatchedEvent) ([]ResolvedEvent, error) {
	out := make([]ResolvedEvent, 0, len(events))
	for _, event := range events {
		resolved := ResolvedEvent{
			TransactionID: event.TransactionID,
			StateVersion:  event.StateVersion,
			Timestamp:     event.Timestamp,
			EventIndex:    event.EventIndex,
			DApp:          event.DApp,
			EventType:     event.EventType,
		}

		address, err := r.deriveAddress(ctx, event)
		if err != nil {
			return nil, err
		}
		if address != "" {
			registered, err := r.accounts.IsRegistered(ctx, address)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to check registration of '%s'", address)
			}
			if registered {
				resolved.Address = &address
			} else {
				r.logger.Sugar().Debugw("derived account is not registered",
					zap.String("accountAddress", address),
					zap.String("transactionId", event.TransactionID),
					zap.String("dApp", event.DApp),
				)
			}
		}
		out = append(out, resolved)
	}
	return out, nil
}

// deriveAddress returns the candidate account for one event, or "" when the
// event does not map to an account.
func (r *Resolver) deriveAddress(ctx context.Context, event *eventMatcher.MatchedEvent) (string, error) {
	switch event.DApp {
	case "Common":
		return r.deriveFromMovePayload(event)
	case "WeftFinance":
		return r.deriveFromCDP(ctx, event, protocols.WeftFinance.WeftyV2Resource)
	case "RootFinance":
		return r.deriveFromCDP(ctx, event, protocols.RootFinance.ReceiptResourceAddress)
	default:
		return "", nil
	}
}

func (r *Resolver) deriveFromMovePayload(event *eventMatcher.MatchedEvent) (string, error) {
	payload := &struct {
		AccountAddress string `json:"accountAddress"`
	}{}
	if err := json.Unmarshal(event.Data, payload); err != nil {
		return "", errors.Wrapf(err, "failed to decode staged payload of '%s'", event.TransactionID)
	}
	return payload.AccountAddress, nil
}

func (r *Resolver) deriveFromCDP(ctx context.Context, event *eventMatcher.MatchedEvent, resourceAddress string) (string, error) {
	payload := &eventMatcher.CDPPayload{}
	if err := json.Unmarshal(event.Data, payload); err != nil {
		return "", errors.Wrapf(err, "failed to decode staged payload of '%s'", event.TransactionID)
	}
	localId, ok := payload.NonFungibleLocalID()
	if !ok {
		return "", nil
	}

	owner, err := r.walkNonFungibleOwnership(ctx, resourceAddress, localId)
	if err != nil {
		if errors.Is(err, ErrUnresolvedOwnership) || errors.Is(err, gateway.ErrEntityNotFound) {
			r.logger.Sugar().Warnw("could not resolve non fungible owner",
				zap.String("resourceAddress", resourceAddress),
				zap.String("nonFungibleId", localId),
				zap.String("transactionId", event.TransactionID),
				zap.Error(err),
			)
			return "", nil
		}
		return "", err
	}
	return owner, nil
}

// walkNonFungibleOwnership finds the account holding a non-fungible. Burned
// ids (liquidated or refinanced CDPs) are chased backwards in ledger history,
// one state version before each burn, until a live holder is found.
func (r *Resolver) walkNonFungibleOwnership(ctx context.Context, resourceAddress string, localId string) (string, error) {
	var atVersion uint64
	for hop := 0; hop < maxOwnershipHops; hop++ {
		location, err := r.locator.GetNonFungibleLocation(ctx, resourceAddress, localId, atVersion)
		if err != nil {
			return "", err
		}
		if len(location.NonFungibleIds) == 0 {
			return "", errors.Wrapf(gateway.ErrEntityNotFound, "no location for '%s' of '%s'", localId, resourceAddress)
		}

		current := location.NonFungibleIds[0]
		if !current.IsBurned {
			if current.OwningVaultGlobalAncestorAddress == nil {
				return "", errors.Wrapf(ErrUnresolvedOwnership, "'%s' has no global ancestor", localId)
			}
			owner := *current.OwningVaultGlobalAncestorAddress
			if !strings.HasPrefix(owner, "account_") {
				return "", errors.Wrapf(ErrUnresolvedOwnership, "'%s' is held by non-account entity '%s'", localId, owner)
			}
			return owner, nil
		}

		if location.LedgerState.StateVersion == 0 {
			return "", errors.Wrapf(ErrUnresolvedOwnership, "'%s' burned at genesis", localId)
		}
		atVersion = location.LedgerState.StateVersion - 1
	}
	return "", errors.Wrapf(ErrUnresolvedOwnership, "gave up on '%s' after %d hops", localId, maxOwnershipHops)
}
