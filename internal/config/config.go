// Package config holds the runtime configuration for the incentives sidecar.
// Values are sourced from command-line flags and environment variables via
// viper; flag names use kebab-case and are mapped to snake_case env vars with
// the SIDECAR_ prefix.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "SIDECAR"

type Network int

const (
	Network_Mainnet  Network = 1
	Network_Stokenet Network = 2
)

// Viper key constants for flags that are referenced from more than one place.
const (
	Debug = "debug"

	GatewayBaseUrl   = "gateway.base-url"
	GatewayPageLimit = "gateway.page-limit"

	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"

	TokenPriceBaseUrl = "token-price.base-url"

	DatabaseHost       = "database.host"
	DatabasePort       = "database.port"
	DatabaseUser       = "database.user"
	DatabasePassword   = "database.password"
	DatabaseDbName     = "database.db-name"
	DatabaseSchemaName = "database.schema-name"
	DatabaseSSLMode    = "database.ssl-mode"

	PollIntervalFloorSeconds   = "stream.backoff-floor-seconds"
	PollIntervalCeilingSeconds = "stream.backoff-ceiling-seconds"
	StreamStartVersion         = "stream.start-version"

	WorkerConcurrency = "worker.concurrency"

	PrometheusEnabled = "prometheus.enabled"
	PrometheusPort    = "prometheus.port"
)

type GatewayConfig struct {
	// BaseUrl is the ledger gateway API endpoint, e.g. "https://mainnet.radixdlt.com"
	BaseUrl string
	// PageLimit bounds the number of transactions requested per poll
	PageLimit int
}

type RedisConfig struct {
	Address  string
	Password string
}

type TokenPriceConfig struct {
	// BaseUrl is the historical token price service endpoint
	BaseUrl string
}

type DatabaseConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	DbName     string
	SchemaName string
	SSLMode    string
}

type StreamConfig struct {
	// BackoffFloorSeconds is the initial sleep after a transient stream condition
	BackoffFloorSeconds int
	// BackoffCeilingSeconds caps the exponential backoff
	BackoffCeilingSeconds int
	// StartVersion overrides the persisted cursor when non-zero
	StartVersion uint64
}

type WorkerConfig struct {
	Concurrency int
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type Config struct {
	Network          Network
	Debug            bool
	GatewayConfig    GatewayConfig
	RedisConfig      RedisConfig
	TokenPriceConfig TokenPriceConfig
	DatabaseConfig   DatabaseConfig
	StreamConfig     StreamConfig
	WorkerConfig     WorkerConfig
	PrometheusConfig PrometheusConfig
}

// NewConfig builds a Config from whatever viper currently has bound. Callers
// are expected to have bound flags and env vars already (see cmd/root.go).
func NewConfig() *Config {
	return &Config{
		Network: parseNetwork(viper.GetString("network")),
		Debug:   viper.GetBool(normalizeFlagName(Debug)),

		GatewayConfig: GatewayConfig{
			BaseUrl:   viper.GetString(normalizeFlagName(GatewayBaseUrl)),
			PageLimit: viper.GetInt(normalizeFlagName(GatewayPageLimit)),
		},

		RedisConfig: RedisConfig{
			Address:  viper.GetString(normalizeFlagName(RedisAddress)),
			Password: viper.GetString(normalizeFlagName(RedisPassword)),
		},

		TokenPriceConfig: TokenPriceConfig{
			BaseUrl: viper.GetString(normalizeFlagName(TokenPriceBaseUrl)),
		},

		DatabaseConfig: DatabaseConfig{
			Host:       viper.GetString(normalizeFlagName(DatabaseHost)),
			Port:       viper.GetInt(normalizeFlagName(DatabasePort)),
			User:       viper.GetString(normalizeFlagName(DatabaseUser)),
			Password:   viper.GetString(normalizeFlagName(DatabasePassword)),
			DbName:     viper.GetString(normalizeFlagName(DatabaseDbName)),
			SchemaName: viper.GetString(normalizeFlagName(DatabaseSchemaName)),
			SSLMode:    viper.GetString(normalizeFlagName(DatabaseSSLMode)),
		},

		StreamConfig: StreamConfig{
			BackoffFloorSeconds:   viper.GetInt(normalizeFlagName(PollIntervalFloorSeconds)),
			BackoffCeilingSeconds: viper.GetInt(normalizeFlagName(PollIntervalCeilingSeconds)),
			StartVersion:          viper.GetUint64(normalizeFlagName(StreamStartVersion)),
		},

		WorkerConfig: WorkerConfig{
			Concurrency: viper.GetInt(normalizeFlagName(WorkerConcurrency)),
		},

		PrometheusConfig: PrometheusConfig{
			Enabled: viper.GetBool(normalizeFlagName(PrometheusEnabled)),
			Port:    viper.GetInt(normalizeFlagName(PrometheusPort)),
		},
	}
}

func parseNetwork(name string) Network {
	switch strings.ToLower(name) {
	case "stokenet":
		return Network_Stokenet
	default:
		return Network_Mainnet
	}
}

func (n Network) String() string {
	switch n {
	case Network_Stokenet:
		return "stokenet"
	case Network_Mainnet:
		return "mainnet"
	}
	return fmt.Sprintf("unknown(%d)", int(n))
}

var kebabRegex = regexp.MustCompile(`[-.]+`)

// KebabToSnakeCase converts a flag name like "database.db-name" into the viper
// key "database_db_name" so that flags and env vars share one keyspace.
func KebabToSnakeCase(str string) string {
	return strings.ToLower(kebabRegex.ReplaceAllString(str, "_"))
}

func normalizeFlagName(name string) string {
	return KebabToSnakeCase(name)
}
