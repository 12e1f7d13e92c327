//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cap-alert-etl/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Santa Rosa, CA")
	require.NoError(t, err)

	assert.InDelta(t, 38.44, result.Lat, 0.1, "lat should be near Santa Rosa")
	assert.InDelta(t, -122.71, result.Lon, 0.1, "lon should be near Santa Rosa")
	assert.Contains(t, result.FormattedAddress, "Santa Rosa")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ForwardGeocode_LowRelevance(t *testing.T) {
	c := smokeClient(t)

	// Fuzzy matching may still return results for nonsense queries.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99")
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer cached.Close()

	r1, err := cached.ForwardGeocode(context.Background(), "Reno, NV")
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Reno")

	r2, err := cached.ForwardGeocode(context.Background(), "Reno, NV")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
