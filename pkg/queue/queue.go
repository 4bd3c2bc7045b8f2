package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/internal/config"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"go.uber.org/zap"
)

// Enqueuer is the producer side of the queue. The pipeline only needs to hand
// off tasks, so this stays narrow enough to fake in tests.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task) error
}

type Client struct {
	client  *asynq.Client
	logger  *zap.Logger
	metrics metricsTypes.IMetricsClient
}

var _ Enqueuer = (*Client)(nil)

func NewClient(cfg *config.RedisConfig, metricsClient metricsTypes.IMetricsClient, l *zap.Logger) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Address,
			Password: cfg.Password,
		}),
		logger:  l,
		metrics: metricsClient,
	}
}

func (c *Client) Enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return errors.Wrapf(err, "failed to enqueue task '%s'", task.Type())
	}
	c.logger.Sugar().Debugw("enqueued task",
		zap.String("task", task.Type()),
		zap.String("taskId", info.ID),
		zap.String("queue", info.Queue),
	)
	_ = c.metrics.Incr(metricsTypes.Metric_Incr_JobEnqueued, []metricsTypes.MetricsLabel{
		{Name: "task", Value: task.Type()},
	}, 1)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Server wraps the asynq consumer. Handlers are registered per task type and
// run with the configured concurrency.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewServer(cfg *config.RedisConfig, concurrency int, l *zap.Logger) *Server {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Address,
			Password: cfg.Password,
		},
		asynq.Config{
			Concurrency: concurrency,
			Logger:      l.Sugar(),
		},
	)
	return &Server{
		server: server,
		mux:    asynq.NewServeMux(),
		logger: l,
	}
}

func (s *Server) HandleFunc(taskType string, handler func(ctx context.Context, task *asynq.Task) error) {
	s.mux.HandleFunc(taskType, handler)
}

func (s *Server) Run() error {
	return s.server.Run(s.mux)
}

func (s *Server) Shutdown() {
	s.server.Shutdown()
}
