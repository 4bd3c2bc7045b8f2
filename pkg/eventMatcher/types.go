// Package eventMatcher turns normalized ledger events into captured protocol
// events. Each dApp has one matcher that gates on its component allow-list and
// decodes the event payloads it understands; everything else passes through
// untouched.
package eventMatcher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
)

// MatchedEvent is one event captured by a protocol matcher, with the decoded
// payload re-encoded as canonical JSON for staging.
type MatchedEvent struct {
	DApp     string
	Category string

	TransactionID string
	StateVersion  uint64
	Timestamp     time.Time
	EventIndex    int

	GlobalEmitter  string
	PackageAddress string
	Blueprint      string
	EventName      string

	// EventType is the normalized type, which may differ from EventName for
	// the common matcher (e.g. WithdrawEvent becomes WithdrawFungibleEvent).
	EventType string
	Data      json.RawMessage
}

// DecodeError indicates an event on a watched component carried a payload
// that failed schema validation. The event is skipped, the error is loud.
type DecodeError struct {
	DApp      string
	EventName string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s.%s payload: %v", e.DApp, e.EventName, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Matcher inspects one event and returns a captured event, nil when the event
// is not the matcher's concern, or a *DecodeError when it is but the payload
// is malformed.
type Matcher interface {
	DApp() string
	Category() string
	Match(event *transactionParser.ParsedEvent) (*MatchedEvent, error)
}

// capture fills in the matcher metadata and event identity fields. Data must
// already be validated.
func capture(m Matcher, event *transactionParser.ParsedEvent, eventType string, data any) (*MatchedEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, &DecodeError{DApp: m.DApp(), EventName: event.Event.Identifier.Event, Err: err}
	}
	return &MatchedEvent{
		DApp:           m.DApp(),
		Category:       m.Category(),
		EventIndex:     event.Index,
		GlobalEmitter:  event.Event.Emitter.GlobalEmitter,
		PackageAddress: event.Event.Identifier.Package,
		Blueprint:      event.Event.Identifier.Blueprint,
		EventName:      event.Event.Identifier.Event,
		EventType:      eventType,
		Data:           payload,
	}, nil
}
