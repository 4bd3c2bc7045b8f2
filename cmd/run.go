package cmd

import (
	"context"
	"time"

	"github.com/rdx-works/incentives-sidecar/internal/config"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/internal/version"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/gateway"
	"github.com/rdx-works/incentives-sidecar/pkg/clients/tokenPrice"
	"github.com/rdx-works/incentives-sidecar/pkg/eventMatcher"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/metricsTypes"
	"github.com/rdx-works/incentives-sidecar/pkg/metrics/prometheus"
	"github.com/rdx-works/incentives-sidecar/pkg/pipeline"
	"github.com/rdx-works/incentives-sidecar/pkg/postgres"
	"github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations"
	"github.com/rdx-works/incentives-sidecar/pkg/queue"
	"github.com/rdx-works/incentives-sidecar/pkg/shutdown"
	pgStorage "github.com/rdx-works/incentives-sidecar/pkg/storage/postgres"
	"github.com/rdx-works/incentives-sidecar/pkg/tradingVolume"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionParser"
	"github.com/rdx-works/incentives-sidecar/pkg/transactionStream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ingestion pipeline against the ledger transaction stream",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.NewConfig()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		l.Sugar().Infow("incentives sidecar",
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

		migrator := migrations.NewMigrator(pg.Db, grm, l)
		if err := migrator.MigrateAll(); err != nil {
			l.Sugar().Fatalw("failed to run database migrations", zap.Error(err))
		}

		store := pgStorage.NewPostgresIncentivesStore(grm, l)

		gatewayClient := gateway.NewClient(&gateway.ClientConfig{
			BaseUrl:   cfg.GatewayConfig.BaseUrl,
			PageLimit: cfg.GatewayConfig.PageLimit,
		}, l)

		prices := tokenPrice.NewClient(&tokenPrice.ClientConfig{
			BaseUrl: cfg.TokenPriceConfig.BaseUrl,
		}, l)

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Address,
			Password: cfg.RedisConfig.Password,
		})
		cursors := transactionStream.NewRedisCursorStore(redisClient)

		queueClient := queue.NewClient(&cfg.RedisConfig, metricsClient, l)

		p := pipeline.NewPipeline(
			transactionParser.NewNormalizer(l),
			eventMatcher.NewDefaultRegistry(metricsClient, l),
			store,
			tradingVolume.NewCalculator(prices, metricsClient, l),
			queueClient,
			cfg.WorkerConfig.Concurrency,
			metricsClient,
			l,
		)

		poller := transactionStream.NewPoller(gatewayClient, cursors, &transactionStream.PollerConfig{
			BackoffFloor:   time.Duration(cfg.StreamConfig.BackoffFloorSeconds) * time.Second,
			BackoffCeiling: time.Duration(cfg.StreamConfig.BackoffCeilingSeconds) * time.Second,
			StartVersion:   cfg.StreamConfig.StartVersion,
		}, metricsClient, l)

		go func() {
			if err := poller.Run(ctx, p.HandleBatch); err != nil {
				l.Sugar().Fatalw("transaction stream poller failed", zap.Error(err))
			}
		}()

		gracefulShutdown := shutdown.CreateGracefulShutdownChannel()

		done := make(chan bool)
		shutdown.ListenForShutdown(gracefulShutdown, done, func() {
			l.Sugar().Info("shutting down...")
			cancel()
			if promChan != nil {
				promChan <- true
			}
			if err := queueClient.Close(); err != nil {
				l.Sugar().Errorw("failed to close queue client", zap.Error(err))
			}
		}, time.Second*5, l)
	},
}

// setupMetrics returns the configured metrics client and, when prometheus is
// enabled, the channel that stops its scrape server.
func setupMetrics(cfg *config.Config, l *zap.Logger) (metricsTypes.IMetricsClient, chan bool) {
	if !cfg.PrometheusConfig.Enabled {
		return metrics.NewNoopMetricsClient(), nil
	}

	client, err := prometheus.NewPrometheusMetricsClient(&prometheus.PrometheusMetricsConfig{
		Metrics: metricsTypes.MetricTypes,
	}, l)
	if err != nil {
		l.Sugar().Fatalw("failed to setup prometheus metrics client", zap.Error(err))
	}

	promChan := make(chan bool)
	pServer := prometheus.NewPrometheusServer(&prometheus.PrometheusServerConfig{
		Port: cfg.PrometheusConfig.Port,
	}, client, l)
	if err := pServer.Start(promChan); err != nil {
		l.Sugar().Fatalw("failed to start prometheus server", zap.Error(err))
	}
	return client, promChan
}
