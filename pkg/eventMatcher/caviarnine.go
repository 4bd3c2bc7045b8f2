package eventMatcher

import (
	"encoding/json"

	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

// caviarnineIgnoredEvents are emitted by CaviarNine pools but carry nothing
// the program tracks directly.
var caviarnineIgnoredEvents = map[string]bool{
	"WithdrawEvent":             true,
	"DepositEvent":              true,
	"ProtocolFeeEvent":          true,
	"ValuationEvent":            true,
	"LiquidityFeeEvent":         true,
	"BurnLiquidityReceiptEvent": true,
	"MintLiquidityReceiptEvent": true,
	"SetFeeShareEvent":          true,
	"LiquidityChangeEvent":      true,
	"NewPoolEvent":              true,
}

type CaviarNineMatcher struct {
	logger *zap.Logger
}

func NewCaviarNineMatcher(l *zap.Logger) *CaviarNineMatcher {
	return &CaviarNineMatcher{logger: l}
}

func (m *CaviarNineMatcher) DApp() string     { return "Caviarnine" }
func (m *CaviarNineMatcher) Category() string { return "DEX" }

func (m *CaviarNineMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	component := event.Event.Emitter.GlobalEmitter
	isPrecisionPool := protocols.IsCaviarNinePrecisionPoolComponent(component)
	isSimplePool := protocols.IsCaviarNineSimplePoolComponent(component)

	// the hyperstake pool is deliberately not watched here; its swaps
	// attribute to the HLP matcher
	if !isPrecisionPool && !isSimplePool {
		return nil, nil
	}

	name := event.Event.Identifier.Event
	switch name {
	case "AddLiquidityEvent", "RemoveLiquidityEvent":
		// only precision pools emit liquidity events the program tracks
		if isPrecisionPool {
			var payload json.RawMessage
			if err := json.Unmarshal(event.Event.Payload, &payload); err != nil {
				return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
			}
			return capture(m, event, name, payload)
		}
		return nil, nil
	case "SwapEvent":
		payload, err := decodePrecisionPoolSwap(event.Event.Payload)
		if err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	}

	if caviarnineIgnoredEvents[name] {
		return nil, nil
	}

	m.logger.Sugar().Infow("no match found for caviarnine event",
		zap.String("eventName", name),
		zap.String("component", component),
	)
	return nil, nil
}
