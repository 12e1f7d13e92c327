//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cap-alert-etl/internal/adapter/kafka"
	"github.com/couchcryptid/cap-alert-etl/internal/codes"
	"github.com/couchcryptid/cap-alert-etl/internal/config"
	"github.com/couchcryptid/cap-alert-etl/internal/decoder"
	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/observability"
	"github.com/couchcryptid/cap-alert-etl/internal/pipeline"
	"github.com/couchcryptid/cap-alert-etl/internal/tracker"
	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
	flashFloodID    = "NOAA-NWS-ALERTS-TX1255A1B2C3D4.FlashFloodWarning.1255A1B2C3D4TX.SJTFFWSJT.0123"
	ipawsID         = "CA-OES-2011-0042"
)

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Record  domain.AlertRecord
	Key     string
	Headers map[string]string
}

// readSink reads a single message from the sink consumer and deserializes it.
func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var rec domain.AlertRecord
	require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal sink message")

	return sinkMessage{Record: rec, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func newTransformer(watch domain.Watch) *pipeline.AlertTransformer {
	logger := discardLogger()
	tables := codes.New()
	return pipeline.NewTransformer(
		decoder.New(tables, logger),
		tables,
		tracker.New(nil, logger),
		ugc.NewMatcher(logger),
		pipeline.TransformerConfig{Watch: watch},
		observability.NewMetricsForTesting(),
		logger,
	)
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func produce(ctx context.Context, t *testing.T, broker string, msgs ...kafkago.Message) {
	t.Helper()
	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, msgs...))
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (Extractor) and
// kafka.Writer (Loader) correctly round-trip a CAP document through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	payload := loadFixture(t, "nws_flash_flood.xml")
	produce(ctx, t, broker, kafkago.Message{
		Key:     []byte("test-key"),
		Value:   payload,
		Headers: []kafkago.Header{{Key: pipeline.SourceHeader, Value: []byte("https://alerts.weather.gov/cap/tx.php")}},
	})

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("test-key"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	assert.Equal(t, "https://alerts.weather.gov/cap/tx.php", raw.Headers[pipeline.SourceHeader])
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	out, err := newTransformer(domain.Watch{State: "TX", FIPS: "48451"}).Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	sm := readSink(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, flashFloodID, sm.Key)
	assert.Equal(t, "Alert", sm.Headers["msg_type"])
	assert.NotEmpty(t, sm.Headers["thread_id"])
	_, err = time.Parse(time.RFC3339, sm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, "Flash Flood Warning", sm.Record.Title)
	assert.True(t, sm.Record.Relevant)
	assert.Equal(t, []string{"TXC451"}, sm.Record.Zones)
	assert.Equal(t, "https://alerts.weather.gov/cap/tx.php", sm.Record.Source)
	require.NotNil(t, sm.Record.Alert)
	assert.Equal(t, flashFloodID, sm.Record.Alert.ID)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer)
// with real Kafka. A poison pill and a duplicate are skipped; both valid
// documents reach the sink.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	flood := loadFixture(t, "nws_flash_flood.xml")
	produce(ctx, t, broker,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-xml{{{")},
		kafkago.Message{Key: []byte("flood"), Value: flood},
		kafkago.Message{Key: []byte("flood-again"), Value: flood},
		kafkago.Message{Key: []byte("ipaws"), Value: loadFixture(t, "ipaws_circle.xml")},
	)

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, newTransformer(domain.Watch{}), writer, discardLogger(), observability.NewMetricsForTesting(), 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	keys := []string{readSink(ctx, t, consumer).Key, readSink(ctx, t, consumer).Key}
	assert.ElementsMatch(t, []string{flashFloodID, ipawsID}, keys)

	// Neither the poison pill nor the duplicate produce a record.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no third message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx))
}
