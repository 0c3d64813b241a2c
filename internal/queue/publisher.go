package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/stackseed/internal/models"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewMessage encodes a submission keyed by kind, run and line.
func NewMessage(sub models.Submission) (kafka.Message, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal submission %s/%d: %w", sub.RunID, sub.Line, err)
	}
	key := fmt.Sprintf("%s-%s-%d", sub.Kind, sub.RunID, sub.Line)
	return kafka.Message{Key: []byte(key), Value: payload}, nil
}

func PublishSubmission(ctx context.Context, writer MessageWriter, sub models.Submission) error {
	if writer == nil {
		return nil
	}
	msg, err := NewMessage(sub)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, msg)
}

// Publisher sends every recorded submission to Kafka.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Record(ctx context.Context, sub models.Submission) error {
	if p == nil {
		return nil
	}
	return PublishSubmission(ctx, p.writer, sub)
}
