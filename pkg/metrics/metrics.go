// Package metrics provides the metrics client used across the sidecar.
package metrics

import (
	"time"

	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
)

// NoopMetricsClient satisfies IMetricsClient and drops everything. Used in
// tests and when prometheus is disabled.
type NoopMetricsClient struct{}

func NewNoopMetricsClient() *NoopMetricsClient {
	return &NoopMetricsClient{}
}

func (n *NoopMetricsClient) Incr(name string, labels []metricsTypes.MetricsLabel, value float64) error {
	return nil
}

func (n *NoopMetricsClient) Gauge(name string, value float64, labels []metricsTypes.MetricsLabel) error {
	return nil
}

func (n *NoopMetricsClient) Timing(name string, value time.Duration, labels []metricsTypes.MetricsLabel) error {
	return nil
}

func (n *NoopMetricsClient) Flush() {}
