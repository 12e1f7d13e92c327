package domain

import (
	"context"
	"time"

	"github.com/paulmach/orb/geojson"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// AlertRecord is the decoded, enriched alert published to the sink topic.
type AlertRecord struct {
	Key         string                     `json:"key"`
	Title       string                     `json:"title"`
	ThreadID    string                     `json:"thread_id,omitempty"`
	Relevant    bool                       `json:"relevant"`
	Expired     bool                       `json:"expired"`
	Expires     time.Time                  `json:"expires"`
	Zones       []string                   `json:"zones,omitempty"`
	Geometry    *geojson.FeatureCollection `json:"geometry,omitempty"`
	Source      string                     `json:"source"`
	Diagnostics []Diagnostic               `json:"diagnostics,omitempty"`
	Alert       *Alert                     `json:"alert"`
	ProcessedAt time.Time                  `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
