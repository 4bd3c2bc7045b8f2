package eventMatcher

import (
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

var rootFinanceIgnoredEvents = map[string]bool{
	"CDPLiquidableEvent":      true,
	"LendingPoolUpdatedEvent": true,
}

type RootFinanceMatcher struct {
	logger *zap.Logger
}

func NewRootFinanceMatcher(l *zap.Logger) *RootFinanceMatcher {
	return &RootFinanceMatcher{logger: l}
}

func (m *RootFinanceMatcher) DApp() string     { return "RootFinance" }
func (m *RootFinanceMatcher) Category() string { return "Lending" }

func (m *RootFinanceMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	if !protocols.IsRootFinanceComponent(
		event.Event.Emitter.GlobalEmitter,
		event.Event.Identifier.Package,
	) {
		return nil, nil
	}

	name := event.Event.Identifier.Event
	switch {
	case name == "CDPUpdatedEvent":
		payload, err := decodeCDP(event.Event.Payload, true)
		if err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	case rootFinanceIgnoredEvents[name]:
		return nil, nil
	}

	m.logger.Sugar().Infow("no match found for root finance event",
		zap.String("eventName", name),
	)
	return nil, nil
}
