package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
)

// NewRecord builds the sink record for a decoded alert. Thread, relevance
// and zone fields are left for the caller.
func NewRecord(source string, alert *Alert, tables *codes.Tables) AlertRecord {
	now := clock.Now().UTC()
	return AlertRecord{
		Key:         alert.Key(),
		Title:       alert.Title(tables),
		Expired:     alert.IsExpired(now),
		Expires:     alert.Expires(),
		Geometry:    Geometry(alert),
		Source:      source,
		Diagnostics: alert.Diagnostics(),
		Alert:       alert,
		ProcessedAt: now,
	}
}

// Geometry renders every polygon and circle of the alert as GeoJSON.
// Circles become points with a radius_km property. Returns nil when the
// alert carries no geometry.
func Geometry(alert *Alert) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, info := range alert.Infos {
		for _, area := range info.Areas {
			for _, ring := range area.Polygons {
				f := geojson.NewFeature(orb.Polygon{closed(ring)})
				f.Properties["areaDesc"] = area.Desc
				fc.Append(f)
			}
			for _, c := range area.Circles {
				f := geojson.NewFeature(c.Center)
				f.Properties["areaDesc"] = area.Desc
				f.Properties["radius_km"] = c.RadiusKm
				fc.Append(f)
			}
		}
	}
	if len(fc.Features) == 0 {
		return nil
	}
	return fc
}

// SerializeRecord encodes a record for the sink topic, keyed by alert identifier.
func SerializeRecord(r AlertRecord) (OutputEvent, error) {
	value, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize alert record: %w", err)
	}

	headers := map[string]string{
		"processed_at": r.ProcessedAt.UTC().Format(time.RFC3339),
	}
	var key []byte
	if r.Alert != nil {
		key = []byte(r.Alert.ID)
		headers["msg_type"] = string(r.Alert.MsgType)
	}
	if r.ThreadID != "" {
		headers["thread_id"] = r.ThreadID
	}

	return OutputEvent{Key: key, Value: value, Headers: headers}, nil
}

// closed returns ring with its first point repeated at the end, as GeoJSON requires.
func closed(ring orb.Ring) orb.Ring {
	if len(ring) == 0 || ring.Closed() {
		return ring
	}
	out := make(orb.Ring, len(ring), len(ring)+1)
	copy(out, ring)
	return append(out, ring[0])
}
