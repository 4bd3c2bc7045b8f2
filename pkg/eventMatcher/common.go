package eventMatcher

import (
	"encoding/json"

	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

// CommonMatcher captures generic Withdraw/Deposit events on account vaults
// for whitelisted resources. The emitter is the account itself, so no custody
// walk is needed downstream.
type CommonMatcher struct {
	logger *zap.Logger
}

func NewCommonMatcher(l *zap.Logger) *CommonMatcher {
	return &CommonMatcher{logger: l}
}

func (m *CommonMatcher) DApp() string     { return "Common" }
func (m *CommonMatcher) Category() string { return "none" }

func (m *CommonMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	name := event.Event.Identifier.Event
	if name != "WithdrawEvent" && name != "DepositEvent" {
		return nil, nil
	}

	payload := &withdrawDepositPayload{}
	if err := json.Unmarshal(event.Event.Payload, payload); err != nil {
		// withdraw/deposit events fire on every vault, a shape we do not
		// understand is simply not an account vault event
		return nil, nil
	}
	if !protocols.TrackedResources[payload.ResourceAddress] {
		return nil, nil
	}

	account := event.Event.Emitter.GlobalEmitter

	if len(payload.Ids) > 0 {
		eventType := "WithdrawNonFungibleEvent"
		if name == "DepositEvent" {
			eventType = "DepositNonFungibleEvent"
		}
		return capture(m, event, eventType, &NonFungibleMovePayload{
			ResourceAddress: payload.ResourceAddress,
			NftIds:          payload.Ids,
			AccountAddress:  account,
		})
	}

	if payload.Amount != "" {
		eventType := "WithdrawFungibleEvent"
		if name == "DepositEvent" {
			eventType = "DepositFungibleEvent"
		}
		return capture(m, event, eventType, &FungibleMovePayload{
			ResourceAddress: payload.ResourceAddress,
			Amount:          payload.Amount,
			AccountAddress:  account,
		})
	}

	m.logger.Sugar().Debugw("vault event carried neither amount nor ids",
		zap.String("eventName", name),
		zap.String("resourceAddress", payload.ResourceAddress),
	)
	return nil, nil
}
