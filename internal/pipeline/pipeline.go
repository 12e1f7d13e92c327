package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw CAP documents from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns one raw CAP document into a publishable alert record.
// Returning an error wrapping ErrSkip drops the document without counting it
// as a failure.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader publishes alert records to the sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline moves CAP documents from the source topic to the sink topic in
// batches. Offsets are committed only after the batch's records are
// published; documents that are skipped or fail to decode are committed
// straight away so they are never redelivered.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once a batch has been handled end to end.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no alert batch handled yet")
	}
	return nil
}

// Run consumes batches until the context is cancelled. Source and sink
// failures back off from 200ms, doubling up to 5s.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one cycle. It returns false when the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	docs, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("fetch cap documents failed", "error", err, "backoff", *backoff)
		return p.backoffOrStop(ctx, backoff)
	}
	if len(docs) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(docs)))
	p.metrics.BatchSize.Observe(float64(len(docs)))
	*backoff = initialBackoff

	records, published := p.decodeBatch(ctx, docs)
	if len(records) > 0 {
		if err := p.loader.LoadBatch(ctx, records); err != nil {
			p.logger.Error("publish alert records failed", "error", err, "records", len(records))
			return p.backoffOrStop(ctx, backoff)
		}
		p.metrics.MessagesProduced.Add(float64(len(records)))
		for _, doc := range published {
			p.commit(ctx, doc)
		}
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return true
}

// decodeBatch transforms every document, committing the ones that produce no
// record. It returns the records to publish alongside their source documents.
func (p *Pipeline) decodeBatch(ctx context.Context, docs []domain.RawEvent) ([]domain.OutputEvent, []domain.RawEvent) {
	records := make([]domain.OutputEvent, 0, len(docs))
	published := make([]domain.RawEvent, 0, len(docs))

	for _, doc := range docs {
		rec, err := p.transformer.Transform(ctx, doc)
		switch {
		case errors.Is(err, ErrSkip):
			p.metrics.MessagesDropped.WithLabelValues("skipped").Inc()
			p.logger.Debug("cap document skipped", "reason", err,
				"topic", doc.Topic, "partition", doc.Partition, "offset", doc.Offset)
			p.commit(ctx, doc)
		case err != nil:
			p.metrics.MessagesDropped.WithLabelValues("failed").Inc()
			p.logger.Warn("cap document dropped",
				"error", err,
				"topic", doc.Topic,
				"partition", doc.Partition,
				"offset", doc.Offset,
			)
			p.commit(ctx, doc)
		default:
			records = append(records, rec)
			published = append(published, doc)
		}
	}
	return records, published
}

// backoffOrStop sleeps for the current backoff and doubles it. It returns
// false if the context ends first.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil || !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

func (p *Pipeline) commit(ctx context.Context, doc domain.RawEvent) {
	if doc.Commit == nil {
		return
	}
	if err := doc.Commit(ctx); err != nil {
		p.metrics.CommitErrors.Inc()
		p.logger.Warn("commit offset failed", "error", err,
			"topic", doc.Topic, "partition", doc.Partition, "offset", doc.Offset)
	}
}
