package cmd

import (
	"os"
	"strings"

	"github.com/rdx-works/incentives-sidecar/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "incentives-sidecar",
	Short: "The incentives sidecar ingests Radix ledger activity and maintains points data for registered accounts",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)
	rootCmd.PersistentFlags().StringP("network", "n", "mainnet", "The network to use (mainnet, stokenet)")

	rootCmd.PersistentFlags().String(config.GatewayBaseUrl, "https://mainnet.radixdlt.com", `Ledger gateway API endpoint`)
	rootCmd.PersistentFlags().Int(config.GatewayPageLimit, 100, `Number of transactions per stream page`)

	rootCmd.PersistentFlags().String(config.TokenPriceBaseUrl, "https://token-price-service.radixdlt.com", `Historical token price service endpoint`)

	rootCmd.PersistentFlags().String(config.RedisAddress, "localhost:6379", `Redis address for the task queue and stream cursor`)
	rootCmd.PersistentFlags().String(config.RedisPassword, "", `Redis password`)

	rootCmd.PersistentFlags().String(config.DatabaseHost, "localhost", `PostgreSQL host`)
	rootCmd.PersistentFlags().Int(config.DatabasePort, 5432, `PostgreSQL port`)
	rootCmd.PersistentFlags().String(config.DatabaseUser, "sidecar", `PostgreSQL username`)
	rootCmd.PersistentFlags().String(config.DatabasePassword, "", `PostgreSQL password`)
	rootCmd.PersistentFlags().String(config.DatabaseDbName, "sidecar", `PostgreSQL database name`)
	rootCmd.PersistentFlags().String(config.DatabaseSchemaName, "", `PostgreSQL schema name (default "public")`)
	rootCmd.PersistentFlags().String(config.DatabaseSSLMode, "disable", `PostgreSQL ssl mode`)

	rootCmd.PersistentFlags().Int(config.PollIntervalFloorSeconds, 1, `Initial backoff sleep after a transient stream condition`)
	rootCmd.PersistentFlags().Int(config.PollIntervalCeilingSeconds, 30, `Backoff ceiling for the transaction stream poller`)
	rootCmd.PersistentFlags().Uint64(config.StreamStartVersion, 0, `State version to start polling from when no cursor exists (0 = ledger start)`)

	rootCmd.PersistentFlags().Int(config.WorkerConcurrency, 10, `Number of concurrent task handlers in the worker`)

	rootCmd.PersistentFlags().Bool(config.PrometheusEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().Int(config.PrometheusPort, 2112, `The port to run the prometheus server on`)

	// setup sub commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(runVersionCmd)
	rootCmd.AddCommand(runDatabaseCmd)

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	viper.SetEnvPrefix(config.ENV_PREFIX)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.AutomaticEnv()
}
