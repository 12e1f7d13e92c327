package domain

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cap-alert-etl/internal/geo"
)

// ResolveWatch fills in the watch point by geocoding place when no point is
// configured. If geocoder is nil or geocoding fails, the watch is returned
// unchanged (graceful degradation).
func ResolveWatch(ctx context.Context, w Watch, place string, geocoder Geocoder, logger *slog.Logger) Watch {
	if w.Point != nil || place == "" || geocoder == nil {
		return w
	}

	result, err := geocoder.ForwardGeocode(ctx, place)
	if err != nil {
		logger.Warn("forward geocoding failed", "place", place, "error", err)
		return w
	}
	if result.Lat == 0 && result.Lon == 0 {
		logger.Warn("geocoder returned no coordinates", "place", place)
		return w
	}

	p := geo.NewPoint(result.Lat, result.Lon)
	w.Point = &p
	logger.Info("resolved watch location",
		"place", place,
		"formatted_address", result.FormattedAddress,
		"lat", result.Lat,
		"lon", result.Lon,
		"confidence", result.Confidence,
	)
	return w
}
