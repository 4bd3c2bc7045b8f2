package eventMatcher

import (
	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"go.uber.org/zap"
)

// Registry applies all protocol matchers to every event of a transaction in
// index order. For each event the first matcher that captures it wins. A
// decode failure skips only the affected event.
type Registry struct {
	matchers []Matcher
	logger   *zap.Logger
	metrics  metricsTypes.IMetricsClient
}

func NewRegistry(matchers []Matcher, metricsClient metricsTypes.IMetricsClient, l *zap.Logger) *Registry {
	return &Registry{
		matchers: matchers,
		logger:   l,
		metrics:  metricsClient,
	}
}

// NewDefaultRegistry wires the full matcher set in dispatch order. The common
// matcher runs last so protocol-specific matchers see their events first.
func NewDefaultRegistry(metricsClient metricsTypes.IMetricsClient, l *zap.Logger) *Registry {
	return NewRegistry([]Matcher{
		NewCaviarNineMatcher(l),
		NewOciswapMatcher(l),
		NewDefiPlazaMatcher(l),
		NewWeftFinanceMatcher(l),
		NewRootFinanceMatcher(l),
		NewHLPMatcher(l),
		NewCommonMatcher(l),
	}, metricsClient, l)
}

// MatchTransaction returns the captured events for one parsed transaction in
// event index order.
func (r *Registry) MatchTransaction(tx *transactionParser.ParsedTransaction) ([]*MatchedEvent, error) {
	var matched []*MatchedEvent
	for i := range tx.Events {
		event := &tx.Events[i]
		for _, matcher := range r.matchers {
			captured, err := matcher.Match(event)
			if err != nil {
				var decodeErr *DecodeError
				if errors.As(err, &decodeErr) {
					r.logger.Sugar().Errorw("event payload failed to decode, skipping event",
						zap.String("transactionId", tx.TransactionID),
						zap.Int("eventIndex", event.Index),
						zap.String("dApp", decodeErr.DApp),
						zap.String("eventName", decodeErr.EventName),
						zap.Error(decodeErr.Err),
					)
					_ = r.metrics.Incr(metricsTypes.Metric_Incr_EventDecodeFailed, []metricsTypes.MetricsLabel{
						{Name: "dApp", Value: decodeErr.DApp},
						{Name: "eventName", Value: decodeErr.EventName},
					}, 1)
					break
				}
				return nil, errors.Wrapf(err, "matcher '%s' failed on event %d of '%s'",
					matcher.DApp(), event.Index, tx.TransactionID)
			}
			if captured == nil {
				continue
			}

			captured.TransactionID = tx.TransactionID
			captured.StateVersion = tx.StateVersion
			captured.Timestamp = tx.Timestamp
			matched = append(matched, captured)

			_ = r.metrics.Incr(metricsTypes.Metric_Incr_EventMatched, []metricsTypes.MetricsLabel{
				{Name: "dApp", Value: captured.DApp},
				{Name: "eventType", Value: captured.EventType},
			}, 1)
			break
		}
	}
	return matched, nil
}
