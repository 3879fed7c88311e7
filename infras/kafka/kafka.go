package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"parking/config"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.opentelemetry.io/otel/propagation"
)

const (
	writeTimeout = 5 * time.Second
	batchTimeout = 10 * time.Millisecond
)

// Message is one record to publish. Value is encoded as JSON; Headers travel as record headers
// next to the trace context of the publishing request.
type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

// headerCarrier lets the trace propagator write into kafka record headers.
type headerCarrier []kafkaGo.Header

func (c *headerCarrier) Get(key string) string {
	for _, header := range *c {
		if header.Key == key {
			return string(header.Value)
		}
	}

	return ""
}

func (c *headerCarrier) Set(key, value string) {
	*c = append(*c, kafkaGo.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, header := range *c {
		keys = append(keys, header.Key)
	}

	return keys
}

// Encode builds the kafka record for topic. Header order is deterministic.
func (m Message) Encode(ctx context.Context, topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %q: %w", m.Key, err)
	}

	carrier := make(headerCarrier, 0, len(m.Headers)+1)
	for _, key := range slices.Sorted(maps.Keys(m.Headers)) {
		carrier.Set(key, m.Headers[key])
	}

	propagation.TraceContext{}.Inject(ctx, &carrier)

	return kafkaGo.Message{
		Topic:   topic,
		Key:     []byte(m.Key),
		Value:   value,
		Headers: carrier,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) error
	Close() error
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type kafkaClientImpl struct {
	writer writer
}

// New returns a producer for the configured brokers. When Kafka is disabled it returns nil and
// callers skip publishing.
func New(config *config.Config) Client {
	if !config.Kafka.Enable {
		log.Info().Msg("Kafka disabled, lifecycle events will not be published")

		return nil
	}

	transport := &kafkaGo.Transport{ClientID: config.App.Name}
	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka producer initialized")

	return &kafkaClientImpl{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
			Transport:              transport,
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           batchTimeout,
			WriteTimeout:           writeTimeout,
		},
	}
}

// SendMessages writes synchronously. Messages with the same key land on the same partition, so a
// booking's events stay ordered for consumers.
func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	records := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		record, err := message.Encode(ctx, topic)
		if err != nil {
			return err
		}

		records = append(records, record)
	}

	if err := k.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("failed to write %d message(s) to %s: %w", len(records), topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("published to kafka")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	return nil
}
