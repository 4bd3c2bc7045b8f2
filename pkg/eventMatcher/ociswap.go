package eventMatcher

import (
	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

var ociswapIgnoredEvents = map[string]bool{
	"ClaimFeesEvent":       true,
	"FlashLoanEvent":       true,
	"InstantiateEvent":     true,
	"AddLiquidityEvent":    true,
	"RemoveLiquidityEvent": true,
}

type OciswapMatcher struct {
	logger *zap.Logger
}

func NewOciswapMatcher(l *zap.Logger) *OciswapMatcher {
	return &OciswapMatcher{logger: l}
}

func (m *OciswapMatcher) DApp() string     { return "Ociswap" }
func (m *OciswapMatcher) Category() string { return "DEX" }

func (m *OciswapMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	component := event.Event.Emitter.GlobalEmitter
	isPrecisionPool := protocols.IsOciswapPrecisionPoolComponent(component)
	isFlexPool := protocols.IsOciswapFlexPoolComponent(component)
	isBasicPool := protocols.IsOciswapBasicPoolComponent(component)

	if !isPrecisionPool && !isFlexPool && !isBasicPool {
		return nil, nil
	}

	name := event.Event.Identifier.Event
	switch {
	case name == "SwapEvent":
		// flex and basic pools are assumed to emit the same amount_change
		// fields as precision pools; a payload that does not fit is skipped
		// as a decode failure instead of failing the batch
		payload, err := decodePrecisionPoolSwap(event.Event.Payload)
		if err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	case ociswapIgnoredEvents[name]:
		return nil, nil
	}

	m.logger.Sugar().Infow("no match found for ociswap event",
		zap.String("eventName", name),
		zap.String("component", component),
	)
	return nil, nil
}
