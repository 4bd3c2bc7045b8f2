package metricsTypes

import "time"

type IMetricsClient interface {
	Incr(name string, labels []MetricsLabel, value float64) error
	Gauge(name string, value float64, labels []MetricsLabel) error
	Timing(name string, value time.Duration, labels []MetricsLabel) error
	Flush()
}

type MetricsLabel struct {
	Name  string
	Value string
}

type MetricsType string

var (
	MetricsType_Incr   MetricsType = "incr"
	MetricsType_Gauge  MetricsType = "gauge"
	MetricsType_Timing MetricsType = "timing"
)

type MetricsTypeConfig struct {
	Name   string
	Labels []string
}

var (
	Metric_Incr_TransactionProcessed = "transactionProcessed"
	Metric_Incr_EventMatched         = "eventMatched"
	Metric_Incr_EventSkipped         = "eventSkipped"
	Metric_Incr_EventDecodeFailed    = "eventDecodeFailed"
	Metric_Incr_StreamBackoff        = "stream.backoff"
	Metric_Incr_JobEnqueued          = "queue.jobEnqueued"
	Metric_Incr_SnapshotRowWritten   = "snapshot.rowWritten"
	Metric_Incr_TradingVolumeRow     = "tradingVolume.rowWritten"

	Metric_Gauge_CurrentStateVersion = "currentStateVersion"
	Metric_Gauge_LastBatchSize       = "stream.lastBatchSize"

	Metric_Timing_BatchProcessDuration = "batch.process.duration"
	Metric_Timing_PointsCalcDuration   = "points.calc.duration"
)

var MetricTypes = map[MetricsType][]MetricsTypeConfig{
	MetricsType_Incr: {
		MetricsTypeConfig{
			Name:   Metric_Incr_TransactionProcessed,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_EventMatched,
			Labels: []string{
				"dApp",
				"eventType",
			},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_EventSkipped,
			Labels: []string{
				"reason",
			},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_EventDecodeFailed,
			Labels: []string{
				"dApp",
				"eventName",
			},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_StreamBackoff,
			Labels: []string{
				"reason",
			},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_JobEnqueued,
			Labels: []string{
				"task",
			},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_SnapshotRowWritten,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_TradingVolumeRow,
			Labels: []string{},
		},
	},
	MetricsType_Gauge: {
		MetricsTypeConfig{
			Name:   Metric_Gauge_CurrentStateVersion,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Gauge_LastBatchSize,
			Labels: []string{},
		},
	},
	MetricsType_Timing: {
		MetricsTypeConfig{
			Name: Metric_Timing_BatchProcessDuration,
			Labels: []string{
				"transactionCount",
				"hasError",
			},
		},
		MetricsTypeConfig{
			Name: Metric_Timing_PointsCalcDuration,
			Labels: []string{
				"weekId",
			},
		},
	},
}
