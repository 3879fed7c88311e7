package kafka

import (
	"context"

	kafkaGo "github.com/segmentio/kafka-go"
)

// WriterFunc adapts a function to the producer's writer so tests can capture records.
type WriterFunc func(ctx context.Context, msgs ...kafkaGo.Message) error

func (f WriterFunc) WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error {
	return f(ctx, msgs...)
}

func (WriterFunc) Close() error {
	return nil
}

func NewWithWriter(w WriterFunc) Client {
	return &kafkaClientImpl{writer: w}
}
