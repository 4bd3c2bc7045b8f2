package eventMatcher

import (
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

var hlpIgnoredEvents = map[string]bool{
	"SetFeeShareEvent":     true,
	"LiquidityChangeEvent": true,
	"NewPoolEvent":         true,
	"ProtocolFeeEvent":     true,
	"LiquidityFeeEvent":    true,
}

// HLPMatcher captures swaps on the hyperstake pool. Position value is handled
// by the common withdraw/deposit matcher via the HLP resource.
type HLPMatcher struct {
	logger *zap.Logger
}

func NewHLPMatcher(l *zap.Logger) *HLPMatcher {
	return &HLPMatcher{logger: l}
}

func (m *HLPMatcher) DApp() string     { return "HLP" }
func (m *HLPMatcher) Category() string { return "DEX" }

func (m *HLPMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	if !protocols.IsCaviarNineHyperstakePoolComponent(event.Event.Emitter.GlobalEmitter) {
		return nil, nil
	}

	name := event.Event.Identifier.Event
	switch {
	case name == "SwapEvent":
		payload, err := decodePrecisionPoolSwap(event.Event.Payload)
		if err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	case hlpIgnoredEvents[name]:
		return nil, nil
	}

	m.logger.Sugar().Infow("unknown hyperstake pool event",
		zap.String("eventName", name),
	)
	return nil, nil
}
