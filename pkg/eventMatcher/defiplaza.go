package eventMatcher

import (
	"encoding/json"

	"github.com/rdx-works/incentives-sidecar/pkg/protocols"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

// DefiPlazaMatcher only watches the xUSDC PlazaPair, the sole DefiPlaza pool
// in the trading volume program.
type DefiPlazaMatcher struct {
	logger *zap.Logger
}

func NewDefiPlazaMatcher(l *zap.Logger) *DefiPlazaMatcher {
	return &DefiPlazaMatcher{logger: l}
}

func (m *DefiPlazaMatcher) DApp() string     { return "DefiPlaza" }
func (m *DefiPlazaMatcher) Category() string { return "DEX" }

func (m *DefiPlazaMatcher) Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error) {
	if event.Event.Emitter.GlobalEmitter != protocols.DefiPlazaXUSDCPool.ComponentAddress {
		return nil, nil
	}

	name := event.Event.Identifier.Event
	switch name {
	case "AddLiquidityEvent", "RemoveLiquidityEvent":
		var payload json.RawMessage
		if err := json.Unmarshal(event.Event.Payload, &payload); err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	case "SwapEvent":
		payload, err := decodeDefiPlazaSwap(event.Event.Payload)
		if err != nil {
			return nil, &DecodeError{DApp: m.DApp(), EventName: name, Err: err}
		}
		return capture(m, event, name, payload)
	}

	m.logger.Sugar().Infow("no match found for defiplaza event",
		zap.String("eventName", name),
	)
	return nil, nil
}
