package prometheus

import (
	"testing"

	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/stretchr/testify/assert"
)

func Test_UnexpectedLabelsParsing(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	assert.Nil(t, err)

	pmc, err := NewPrometheusMetricsClient(&PrometheusMetricsConfig{
		Metrics: metricsTypes.MetricTypes,
	}, l)
	assert.Nil(t, err)

	t.Run("Should return no error for all labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, metricsTypes.Metric_Incr_EventMatched, []metricsTypes.MetricsLabel{
			{Name: "dApp", Value: "caviarnine"},
			{Name: "eventType", Value: "c9_lp_xrd-xusdc"},
		})
		assert.Nil(t, err)
	})
	t.Run("Should return no error for a subset of labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, metricsTypes.Metric_Incr_EventMatched, []metricsTypes.MetricsLabel{
			{Name: "dApp", Value: "caviarnine"},
		})
		assert.Nil(t, err)
	})
	t.Run("Should return an error for unexpected labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, metricsTypes.Metric_Incr_EventMatched, []metricsTypes.MetricsLabel{
			{Name: "dApp", Value: "caviarnine"},
			{Name: "unexpectedLabel", Value: "unexpectedValue"},
		})
		assert.NotNil(t, err)
	})
	t.Run("Should return an error for unexpected labels when expecting 0 labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Gauge, metricsTypes.Metric_Gauge_CurrentStateVersion, []metricsTypes.MetricsLabel{
			{Name: "unexpectedLabel", Value: "unexpectedValue"},
		})
		assert.NotNil(t, err)
	})
}

func Test_EmitMetrics(t *testing.T) {
	l := logger.NewNoopLogger()

	pmc, err := NewPrometheusMetricsClient(&PrometheusMetricsConfig{
		Metrics: metricsTypes.MetricTypes,
	}, l)
	assert.Nil(t, err)

	assert.Nil(t, pmc.Incr(metricsTypes.Metric_Incr_TransactionProcessed, nil, 1))
	assert.Nil(t, pmc.Gauge(metricsTypes.Metric_Gauge_CurrentStateVersion, 12345, nil))
	assert.NotNil(t, pmc.Incr("notARegisteredMetric", nil, 1))
}
