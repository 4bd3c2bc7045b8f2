package cmd

import (
	"context"
	"time"

	"github.com/rdx-works/incentives-sidecar/internal/config"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/internal/version"
	"github.com/rdx-works/incentives-sidecar/pkg/accountResolver"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/eventWorker"
	"github.com/rdx-works/incentives-sidecar/pkg/points"
	"github.com/rdx-works/incentives-sidecar/pkg/postgres"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/shutdown"
	"github.com/rdx-works/incentives-sidecar/pkg/snapshot"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	pgStorage "github.com/rdx-works/incentives-sidecar/pkg/storage/postgres"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the task worker that resolves events, snapshots balances and recalculates points",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.NewConfig()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		l.Sugar().Infow("incentives sidecar worker",
			zap.String("version", version.GetVersion()),
			zap.String("commit", version.GetCommit()),
			zap.String("network", cfg.Network.String()),
		)

		metricsClient, promChan := setupMetrics(cfg, l)

		pg, err := postgres.NewPostgres(postgres.PostgresConfigFromDbConfig(&cfg.DatabaseConfig))
		if err != nil {
			l.Sugar().Fatalw("failed to setup postgres connection", zap.Error(err))
		}

		grm, err := postgres.NewGormFromPostgresConnection(pg.Db)
		if err != nil {
			l.Sugar().Fatalw("failed to create gorm instance", zap.Error(err))
		}

		store := pgStorage.NewPostgresIncentivesStore(grm, l)

		gatewayClient := gateway.NewClient(&gateway.ClientConfig{
			BaseUrl:   cfg.GatewayConfig.BaseUrl,
			PageLimit: cfg.GatewayConfig.PageLimit,
		}, l)

		prices := tokenPrice.NewClient(&tokenPrice.ClientConfig{
			BaseUrl: cfg.TokenPriceConfig.BaseUrl,
		}, l)

		queueClient := queue.NewClient(&cfg.RedisConfig, metricsClient, l)

		resolver := accountResolver.NewResolver(gatewayClient, store, l)
		worker := eventWorker.NewEventWorker(store, resolver, queueClient, l)
		snapshotter := snapshot.NewSnapshotter(gatewayClient, prices, store, metricsClient, l)
		calculator := points.NewCalculator(store, prices, metricsClient, l)

		server := queue.NewServer(&cfg.RedisConfig, cfg.WorkerConfig.Concurrency, l)
		server.HandleFunc(queue.TypeEventProcess, worker.HandleEventProcess)
		server.HandleFunc(queue.TypeSnapshotRecompute, snapshotter.HandleSnapshotRecompute)
		server.HandleFunc(queue.TypePointsActivity, calculator.HandlePointsActivity)
		server.HandleFunc(queue.TypePointsMultiplier, calculator.HandlePointsMultiplier)

		scheduler := newPointsScheduler(store, queueClient, l)
		scheduler.Start()

		go func() {
			if err := server.Run(); err != nil {
				l.Sugar().Fatalw("task worker failed", zap.Error(err))
			}
		}()

		gracefulShutdown := shutdown.CreateGracefulShutdownChannel()

		done := make(chan bool)
		shutdown.ListenForShutdown(gracefulShutdown, done, func() {
			l.Sugar().Info("shutting down...")
			scheduler.Stop()
			server.Shutdown()
			if promChan != nil {
				promChan <- true
			}
			if err := queueClient.Close(); err != nil {
				l.Sugar().Errorw("failed to close queue client", zap.Error(err))
			}
		}, time.Second*5, l)
	},
}

// newPointsScheduler enqueues hourly points recalculation tasks for the
// active week. Points and multipliers are full recomputes, so a missed or
// doubled tick is harmless.
func newPointsScheduler(store storage.IncentivesStore, enqueuer queue.Enqueuer, l *zap.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		ctx := context.Background()

		week, err := store.GetActiveWeek(ctx)
		if err != nil {
			l.Sugar().Errorw("failed to look up active week", zap.Error(err))
			return
		}
		if week == nil {
			l.Sugar().Debugw("no active week, skipping points recalculation")
			return
		}

		payload := &queue.PointsPayload{WeekID: week.WeekID}
		activityTask, err := queue.NewPointsActivityTask(payload)
		if err != nil {
			l.Sugar().Errorw("failed to build points activity task", zap.Error(err))
			return
		}
		multiplierTask, err := queue.NewPointsMultiplierTask(payload)
		if err != nil {
			l.Sugar().Errorw("failed to build points multiplier task", zap.Error(err))
			return
		}

		if err := enqueuer.Enqueue(ctx, activityTask); err != nil {
			l.Sugar().Errorw("failed to enqueue points activity task", zap.Error(err))
		}
		if err := enqueuer.Enqueue(ctx, multiplierTask); err != nil {
			l.Sugar().Errorw("failed to enqueue points multiplier task", zap.Error(err))
		}
		l.Sugar().Infow("scheduled points recalculation", zap.Uint64("weekId", week.WeekID))
	})
	if err != nil {
		l.Sugar().Fatalw("failed to register points schedule", zap.Error(err))
	}
	return c
}
