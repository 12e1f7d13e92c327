package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/cap-alert-etl/internal/codes"
	"github.com/couchcryptid/cap-alert-etl/internal/decoder"
	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/observability"
	"github.com/couchcryptid/cap-alert-etl/internal/tracker"
	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
)

// ErrSkip marks a message that was handled but produces no output, such as a
// duplicate alert or one outside the watch location. Its offset is committed.
var ErrSkip = errors.New("message skipped")

// SourceHeader names the Kafka header carrying the URL a CAP document was fetched from.
const SourceHeader = "source"

// AlertTransformer decodes CAP documents, threads them in the tracker and
// renders the sink record.
type AlertTransformer struct {
	decoder      *decoder.Decoder
	tables       *codes.Tables
	tracker      *tracker.Tracker
	matcher      *ugc.Matcher
	watch        domain.Watch
	relevantOnly bool
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// TransformerConfig selects the watch location and filtering.
type TransformerConfig struct {
	Watch        domain.Watch
	RelevantOnly bool
}

// NewTransformer creates an AlertTransformer.
func NewTransformer(dec *decoder.Decoder, tables *codes.Tables, trk *tracker.Tracker, matcher *ugc.Matcher, cfg TransformerConfig, metrics *observability.Metrics, logger *slog.Logger) *AlertTransformer {
	return &AlertTransformer{
		decoder:      dec,
		tables:       tables,
		tracker:      trk,
		matcher:      matcher,
		watch:        cfg.Watch,
		relevantOnly: cfg.RelevantOnly,
		metrics:      metrics,
		logger:       logger,
	}
}

func (t *AlertTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	source := sourceOf(raw)

	res, err := t.decoder.Decode(source, raw.Value)
	if err != nil {
		t.metrics.DecodeErrors.WithLabelValues(decodeReason(err)).Inc()
		return domain.OutputEvent{}, err
	}
	alert := res.Alert
	t.observeDecoded(alert, res.Diagnostics)

	threadID, isNew := t.tracker.Add(alert)
	t.observeTracker()
	if !isNew {
		t.metrics.DuplicateAlerts.Inc()
		return domain.OutputEvent{}, fmt.Errorf("%w: duplicate alert %s", ErrSkip, alert.Key())
	}

	rec := domain.NewRecord(source, alert, t.tables)
	rec.ThreadID = threadID
	rec.Zones = alert.Zones(t.matcher)
	rec.Relevant = alert.Relevant(t.watch, t.matcher)

	if rec.Relevant {
		t.metrics.RelevantAlerts.Inc()
	} else if t.relevantOnly {
		t.metrics.FilteredAlerts.Inc()
		return domain.OutputEvent{}, fmt.Errorf("%w: alert %s not relevant to watch location", ErrSkip, alert.ID)
	}

	out, err := domain.SerializeRecord(rec)
	if err != nil {
		t.metrics.DecodeErrors.WithLabelValues("serialize").Inc()
		return domain.OutputEvent{}, err
	}
	return out, nil
}

func (t *AlertTransformer) observeDecoded(alert *domain.Alert, diags []domain.Diagnostic) {
	t.metrics.AlertsDecoded.WithLabelValues(string(alert.MsgType)).Inc()
	for _, d := range diags {
		t.metrics.DecodeDiagnostics.WithLabelValues(d.Field).Inc()
	}
	for _, info := range alert.Infos {
		if info.VTEC == nil {
			continue
		}
		if info.VTEC.HasPVTEC {
			t.metrics.VTECDecoded.WithLabelValues("pvtec").Inc()
		}
		if info.VTEC.HasHVTEC {
			t.metrics.VTECDecoded.WithLabelValues("hvtec").Inc()
		}
	}
}

func (t *AlertTransformer) observeTracker() {
	alerts, threads := t.tracker.Len()
	t.metrics.TrackedAlerts.Set(float64(alerts))
	t.metrics.TrackedThreads.Set(float64(threads))
}

// sourceOf identifies a message by its fetch URL header, falling back to its
// Kafka coordinates.
func sourceOf(raw domain.RawEvent) string {
	if s := raw.Headers[SourceHeader]; s != "" {
		return s
	}
	return fmt.Sprintf("%s/%d/%d", raw.Topic, raw.Partition, raw.Offset)
}

func decodeReason(err error) string {
	switch {
	case errors.Is(err, decoder.ErrMalformedXML):
		return "malformed"
	case errors.Is(err, decoder.ErrMissingField):
		return "missing_field"
	default:
		return "failed"
	}
}
