package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KebabToSnakeCase(t *testing.T) {
	assert.Equal(t, "database_db_name", KebabToSnakeCase("database.db-name"))
	assert.Equal(t, "debug", KebabToSnakeCase("debug"))
	assert.Equal(t, "stream_backoff_floor_seconds", KebabToSnakeCase("stream.backoff-floor-seconds"))
}

func Test_ParseNetwork(t *testing.T) {
	assert.Equal(t, Network_Mainnet, parseNetwork("mainnet"))
	assert.Equal(t, Network_Stokenet, parseNetwork("stokenet"))
	assert.Equal(t, Network_Mainnet, parseNetwork(""))
}
