package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// AWI field definition used when a request does not name its own.
	FieldDefinitionPath      string
	FieldDefinitionCacheSize int

	// Object storage input.
	GCSEnabled bool
	ScratchDir string

	// Number of recent record-set summaries served on /orbits.
	SummaryHistorySize int

	// Local directories that request paths must fall under. Empty allows any
	// path readable by the service.
	AllowedInputRoots []string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("FIELD_DEFINITION_CACHE_SIZE", 16)
	if err != nil {
		return nil, err
	}

	historySize, err := parsePositiveInt("SUMMARY_HISTORY_SIZE", 100)
	if err != nil {
		return nil, err
	}

	gcsEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("GCS_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid GCS_ENABLED")
	}

	roots, err := parseRoots(os.Getenv("ALLOWED_INPUT_ROOTS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "seaice-ingest-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "seaice-orbit-thickness"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "seaice-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		FieldDefinitionPath:      sharedcfg.EnvOrDefault("FIELD_DEFINITION_PATH", "config/awi_field_definition.json"),
		FieldDefinitionCacheSize: cacheSize,

		GCSEnabled: gcsEnabled,
		ScratchDir: sharedcfg.EnvOrDefault("SCRATCH_DIR", os.TempDir()),

		SummaryHistorySize: historySize,
		AllowedInputRoots:  roots,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.FieldDefinitionPath == "" {
		return nil, errors.New("FIELD_DEFINITION_PATH is required")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

// parseRoots splits a comma-separated directory list into absolute, cleaned
// paths.
func parseRoots(s string) ([]string, error) {
	var roots []string
	for _, r := range strings.Split(s, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("invalid ALLOWED_INPUT_ROOTS entry %q: %w", r, err)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}
