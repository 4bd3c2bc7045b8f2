package eventMatcher

import (
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

// weftCapturedEvents all reference a CDP or NFT collateral id.
var weftCapturedEvents = map[string]bool{
	"AddCollateralEvent":                true,
	"BorrowEvent":                       true,
	"RepayEvent":                        true,
	"RemoveCollateralEvent":             true,
	"AddNFTCollateralEvent":             true,
	"RemoveNFTCollateralEvent":          true,
	"CDPRepayForLiquidationEvent":       true,
	"CDPRepayForNFTLiquidationEvent":    true,
	"CDPRepayForRefinanceEvent":         true,
	"CDPRemoveCollateralForLiquidation": true,
	"CDPCreationFeeEvent":               true,
}

var weftIgnoredEvents = map[string]bool{
	"FlashAddCollateralEvent":    true,
	"FlashRemoveCollateralEvent": true,
}

type WeftFinanceMatcher struct {
	logger *zap.Logger
}

func NewWeftFinanceMatcher(l *zap.Logger) *WeftFinanceMatcher {
	return &WeftFinanceMatcher{logger: l}
}

func (m *WeftFinanceMatcher) DApp() string     { return "WeftFinance" }
func (m *WeftFinanceMatcher) Category() string { return "Lending" }

func (m *WeftFinanceMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	if !protocols.IsWeftFinanceComponent(
		event.Event.Emitter.GlobalEmitter,
		event.Event.Identifier.Package,
	) {
		return nil, nil
	}

	name := event.Event.Identifier.Event
	switch {
	case weftCapturedEvents[name]:
		payload, err := decodeCDP(event.Event.Payload, false)
		if err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	case weftIgnoredEvents[name]:
		return nil, nil
	}

	m.logger.Sugar().Infow("no match found for weft finance event",
		zap.String("eventName", name),
	)
	return nil, nil
}
