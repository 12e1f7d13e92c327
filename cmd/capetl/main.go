// Command capetl consumes raw CAP documents from Kafka, decodes and threads
// them, and publishes the decoded alert records to the sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/cap-alert-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cap-alert-etl/internal/adapter/kafka"
	"github.com/couchcryptid/cap-alert-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/cap-alert-etl/internal/codes"
	"github.com/couchcryptid/cap-alert-etl/internal/config"
	"github.com/couchcryptid/cap-alert-etl/internal/decoder"
	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/observability"
	"github.com/couchcryptid/cap-alert-etl/internal/pipeline"
	"github.com/couchcryptid/cap-alert-etl/internal/tracker"
	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geocoder, closeGeocoder := newGeocoder(cfg, metrics, logger)
	defer closeGeocoder()

	watch := domain.ResolveWatch(ctx, cfg.Watch(), cfg.WatchPlace, geocoder, logger)
	if cfg.RelevantOnly && watch.IsZero() {
		logger.Error("RELEVANT_ONLY is set but the watch location could not be resolved", "place", cfg.WatchPlace)
		os.Exit(1)
	}

	tables := codes.New()
	matcher := ugc.NewMatcher(logger)
	clock := clockwork.NewRealClock()
	domain.SetClock(clock)
	trk := tracker.New(clock, logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(
		decoder.New(tables, logger),
		tables,
		trk,
		matcher,
		pipeline.TransformerConfig{Watch: watch, RelevantOnly: cfg.RelevantOnly},
		metrics,
		logger,
	)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, trk, matcher, geocoder, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		return trk.Run(gctx, cfg.SweepInterval, func(removed int) {
			metrics.SweptAlerts.Add(float64(removed))
			alerts, threads := trk.Len()
			metrics.TrackedAlerts.Set(float64(alerts))
			metrics.TrackedThreads.Set(float64(threads))
		})
	})

	logger.Info("cap alert etl started",
		"source_topic", cfg.KafkaSourceTopic,
		"sink_topic", cfg.KafkaSinkTopic,
		"relevant_only", cfg.RelevantOnly,
		"watch_state", watch.State,
		"watch_fips", watch.FIPS,
		"watch_zone", watch.Zone,
		"watch_point", watch.Point != nil,
	)

	<-gctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newGeocoder returns the cached Mapbox geocoder, or nil when geocoding is
// disabled (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, func()) {
	if !cfg.MapboxEnabled {
		logger.Info("mapbox geocoding disabled")
		return nil, func() {}
	}

	metrics.GeocodeEnabled.Set(1)
	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	if err != nil {
		logger.Error("geocode cache unavailable, using uncached client", "error", err)
		return client, func() {}
	}

	logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	return cached, cached.Close
}
