// Package prometheus implements the metrics client on top of the prometheus
// client library. Metrics must be declared up front in the config; emitting a
// label that was not declared for a metric is an error rather than a silent
// cardinality leak.
package prometheus

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"go.uber.org/zap"
)

type PrometheusMetricsConfig struct {
	Metrics map[metricsTypes.MetricsType][]metricsTypes.MetricsTypeConfig
}

type PrometheusMetricsClient struct {
	config   *PrometheusMetricsConfig
	logger   *zap.Logger
	registry *prometheus.Registry

	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec

	// expectedLabels[type][name] -> declared label names
	expectedLabels map[metricsTypes.MetricsType]map[string][]string
}

func NewPrometheusMetricsClient(cfg *PrometheusMetricsConfig, l *zap.Logger) (*PrometheusMetricsClient, error) {
	c := &PrometheusMetricsClient{
		config:         cfg,
		logger:         l,
		registry:       prometheus.NewRegistry(),
		counters:       make(map[string]*prometheus.CounterVec),
		gauges:         make(map[string]*prometheus.GaugeVec),
		histograms:     make(map[string]*prometheus.HistogramVec),
		expectedLabels: make(map[metricsTypes.MetricsType]map[string][]string),
	}

	for metricsType, configs := range cfg.Metrics {
		c.expectedLabels[metricsType] = make(map[string][]string)
		for _, mc := range configs {
			c.expectedLabels[metricsType][mc.Name] = mc.Labels
			name := sanitizeMetricName(mc.Name)

			switch metricsType {
			case metricsTypes.MetricsType_Incr:
				vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, mc.Labels)
				if err := c.registry.Register(vec); err != nil {
					return nil, errors.Wrapf(err, "failed to register counter '%s'", mc.Name)
				}
				c.counters[mc.Name] = vec
			case metricsTypes.MetricsType_Gauge:
				vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name}, mc.Labels)
				if err := c.registry.Register(vec); err != nil {
					return nil, errors.Wrapf(err, "failed to register gauge '%s'", mc.Name)
				}
				c.gauges[mc.Name] = vec
			case metricsTypes.MetricsType_Timing:
				vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
					Name:    name,
					Buckets: prometheus.DefBuckets,
				}, mc.Labels)
				if err := c.registry.Register(vec); err != nil {
					return nil, errors.Wrapf(err, "failed to register histogram '%s'", mc.Name)
				}
				c.histograms[mc.Name] = vec
			}
		}
	}
	return c, nil
}

// Handler serves the registry for scraping.
func (c *PrometheusMetricsClient) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *PrometheusMetricsClient) hasUnexpectedLabels(metricsType metricsTypes.MetricsType, name string, labels []metricsTypes.MetricsLabel) error {
	expected, ok := c.expectedLabels[metricsType][name]
	if !ok {
		return errors.Errorf("metric '%s' of type '%s' is not declared", name, metricsType)
	}
	for _, label := range labels {
		found := false
		for _, e := range expected {
			if e == label.Name {
				found = true
				break
			}
		}
		if !found {
			return errors.Errorf("metric '%s' received undeclared label '%s'", name, label.Name)
		}
	}
	return nil
}

// fullLabels returns a prometheus label set containing every declared label,
// with empty values for labels the caller did not provide.
func (c *PrometheusMetricsClient) fullLabels(metricsType metricsTypes.MetricsType, name string, labels []metricsTypes.MetricsLabel) prometheus.Labels {
	out := prometheus.Labels{}
	for _, e := range c.expectedLabels[metricsType][name] {
		out[e] = ""
	}
	for _, label := range labels {
		out[label.Name] = label.Value
	}
	return out
}

func (c *PrometheusMetricsClient) Incr(name string, labels []metricsTypes.MetricsLabel, value float64) error {
	if err := c.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, name, labels); err != nil {
		return err
	}
	vec, ok := c.counters[name]
	if !ok {
		return errors.Errorf("counter '%s' is not registered", name)
	}
	vec.With(c.fullLabels(metricsTypes.MetricsType_Incr, name, labels)).Add(value)
	return nil
}

func (c *PrometheusMetricsClient) Gauge(name string, value float64, labels []metricsTypes.MetricsLabel) error {
	if err := c.hasUnexpectedLabels(metricsTypes.MetricsType_Gauge, name, labels); err != nil {
		return err
	}
	vec, ok := c.gauges[name]
	if !ok {
		return errors.Errorf("gauge '%s' is not registered", name)
	}
	vec.With(c.fullLabels(metricsTypes.MetricsType_Gauge, name, labels)).Set(value)
	return nil
}

func (c *PrometheusMetricsClient) Timing(name string, value time.Duration, labels []metricsTypes.MetricsLabel) error {
	if err := c.hasUnexpectedLabels(metricsTypes.MetricsType_Timing, name, labels); err != nil {
		return err
	}
	vec, ok := c.histograms[name]
	if !ok {
		return errors.Errorf("histogram '%s' is not registered", name)
	}
	vec.With(c.fullLabels(metricsTypes.MetricsType_Timing, name, labels)).Observe(value.Seconds())
	return nil
}

func (c *PrometheusMetricsClient) Flush() {}

type PrometheusServerConfig struct {
	Port int
}

// PrometheusServer exposes the scrape endpoint of one metrics client.
type PrometheusServer struct {
	config *PrometheusServerConfig
	client *PrometheusMetricsClient
	logger *zap.Logger
	server *http.Server
}

func NewPrometheusServer(cfg *PrometheusServerConfig, client *PrometheusMetricsClient, l *zap.Logger) *PrometheusServer {
	return &PrometheusServer{
		config: cfg,
		client: client,
		logger: l,
	}
}

// Start serves /metrics in the background. A value on done triggers a
// graceful shutdown.
func (s *PrometheusServer) Start(done chan bool) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.client.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: mux,
	}

	go func() {
		s.logger.Sugar().Infow("starting prometheus server", zap.Int("port", s.config.Port))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Sugar().Errorw("prometheus server failed", zap.Error(err))
		}
	}()

	go func() {
		<-done
		if err := s.server.Close(); err != nil {
			s.logger.Sugar().Errorw("failed to close prometheus server", zap.Error(err))
		}
	}()
	return nil
}

var metricNameReplacer = strings.NewReplacer(".", "_", "-", "_")

func sanitizeMetricName(name string) string {
	return fmt.Sprintf("sidecar_%s", metricNameReplacer.Replace(name))
}
