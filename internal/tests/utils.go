// Package tests contains helpers shared by integration-style tests that need
// a real postgres database.
package tests

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rdx-works/incentives-sidecar/internal/config"
)

// GenerateTestDbName returns a random database name safe for CREATE DATABASE.
func GenerateTestDbName() (string, error) {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "_")
	return fmt.Sprintf("test_%s", suffix), nil
}

// GetDbConfigFromEnv reads the test database connection parameters from the
// environment, falling back to local defaults.
func GetDbConfigFromEnv() *config.DatabaseConfig {
	port := 5432
	if p, err := strconv.Atoi(os.Getenv("SIDECAR_DATABASE_PORT")); err == nil && p != 0 {
		port = p
	}
	cfg := &config.DatabaseConfig{
		Host:     getEnvOrDefault("SIDECAR_DATABASE_HOST", "localhost"),
		Port:     port,
		User:     getEnvOrDefault("SIDECAR_DATABASE_USER", "postgres"),
		Password: os.Getenv("SIDECAR_DATABASE_PASSWORD"),
		DbName:   getEnvOrDefault("SIDECAR_DATABASE_DB_NAME", "sidecar"),
	}
	return cfg
}

func getEnvOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
