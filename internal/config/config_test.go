package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "seaice-ingest-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "seaice-orbit-thickness", cfg.KafkaSinkTopic)
	assert.Equal(t, "seaice-etl", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, "config/awi_field_definition.json", cfg.FieldDefinitionPath)
	assert.Equal(t, 16, cfg.FieldDefinitionCacheSize)
	assert.False(t, cfg.GCSEnabled)
	assert.Equal(t, os.TempDir(), cfg.ScratchDir)
	assert.Equal(t, 100, cfg.SummaryHistorySize)
	assert.Empty(t, cfg.AllowedInputRoots)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("FIELD_DEFINITION_PATH", "/etc/seaice/awi.yaml")
	t.Setenv("FIELD_DEFINITION_CACHE_SIZE", "4")
	t.Setenv("GCS_ENABLED", "true")
	t.Setenv("SCRATCH_DIR", "/var/tmp/seaice")
	t.Setenv("SUMMARY_HISTORY_SIZE", "25")
	t.Setenv("ALLOWED_INPUT_ROOTS", "/data/awi/, ,/data/jpl")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "/etc/seaice/awi.yaml", cfg.FieldDefinitionPath)
	assert.Equal(t, 4, cfg.FieldDefinitionCacheSize)
	assert.True(t, cfg.GCSEnabled)
	assert.Equal(t, "/var/tmp/seaice", cfg.ScratchDir)
	assert.Equal(t, 25, cfg.SummaryHistorySize)
	assert.Equal(t, []string{"/data/awi", "/data/jpl"}, cfg.AllowedInputRoots)
}

func TestLoad_RelativeAllowedRootIsMadeAbsolute(t *testing.T) {
	t.Setenv("ALLOWED_INPUT_ROOTS", "data")
	wd, err := os.Getwd()
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(wd, "data")}, cfg.AllowedInputRoots)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	for _, v := range []string{"0", "-3", "many"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FIELD_DEFINITION_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FIELD_DEFINITION_CACHE_SIZE")
		})
	}
}

func TestLoad_InvalidHistorySize(t *testing.T) {
	t.Setenv("SUMMARY_HISTORY_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARY_HISTORY_SIZE")
}

func TestLoad_InvalidGCSEnabled(t *testing.T) {
	t.Setenv("GCS_ENABLED", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GCS_ENABLED")
}
