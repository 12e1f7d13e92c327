package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/geo"
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

	// Watch location alerts are tested against.
	WatchState   string
	WatchFIPS    string
	WatchZone    string
	WatchLat     *float64
	WatchLon     *float64
	WatchPlace   string
	RelevantOnly bool

	SweepInterval time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err2 := time.ParseDuration(mapboxTimeoutStr)
	if err2 != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	sweepInterval, err := parsePositiveDuration("SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	relevantOnly, err := parseBool("RELEVANT_ONLY", false)
	if err != nil {
		return nil, err
	}

	lat, err := parseCoordinate("WATCH_LAT", 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseCoordinate("WATCH_LON", 180)
	if err != nil {
		return nil, err
	}
	if (lat == nil) != (lon == nil) {
		return nil, errWatchPoint
	}

	mapboxCacheSize := parseMapboxCacheSize()

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-cap-alerts"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "decoded-cap-alerts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "cap-alert-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		WatchState:   strings.ToUpper(strings.TrimSpace(os.Getenv("WATCH_STATE"))),
		WatchFIPS:    strings.TrimSpace(os.Getenv("WATCH_FIPS")),
		WatchZone:    strings.TrimSpace(os.Getenv("WATCH_ZONE")),
		WatchLat:     lat,
		WatchLon:     lon,
		WatchPlace:   strings.TrimSpace(os.Getenv("WATCH_PLACE")),
		RelevantOnly: relevantOnly,

		SweepInterval: sweepInterval,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,
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
	if cfg.WatchState != "" && len(cfg.WatchState) != 2 {
		return nil, errors.New("WATCH_STATE must be a two-letter state code")
	}
	if cfg.WatchZone != "" && !isDigits(cfg.WatchZone, 3) {
		return nil, errors.New("WATCH_ZONE must be a three-digit zone number")
	}
	if cfg.WatchFIPS != "" && !isDigits(cfg.WatchFIPS, 5) {
		return nil, errors.New("WATCH_FIPS must be a five-digit county FIPS code")
	}
	if cfg.RelevantOnly && cfg.Watch().IsZero() && cfg.WatchPlace == "" {
		return nil, errors.New("RELEVANT_ONLY requires a WATCH_* location")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// Watch returns the configured watch location. The point is set only when
// both WATCH_LAT and WATCH_LON are configured.
func (c *Config) Watch() domain.Watch {
	w := domain.Watch{State: c.WatchState, FIPS: c.WatchFIPS, Zone: c.WatchZone}
	if c.WatchLat != nil && c.WatchLon != nil {
		p := geo.NewPoint(*c.WatchLat, *c.WatchLon)
		w.Point = &p
	}
	return w
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
