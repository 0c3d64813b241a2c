package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/stackseed/internal/models"
)

type memWriter struct {
	msgs []kafka.Message
	err  error
}

func (m *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func sample() models.Submission {
	return models.Submission{
		RunID:       "run-1",
		Kind:        models.KindQuestion,
		Line:        4,
		Endpoint:    "http://qa.local/questions/add",
		PayloadHash: "hash",
		StatusCode:  200,
		APIStatus:   "OK",
		SentAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(sample())
	require.NoError(t, err)
	assert.Equal(t, "question-run-1-4", string(msg.Key))

	var decoded models.Submission
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, sample(), decoded)
}

func TestPublisher_Record(t *testing.T) {
	w := &memWriter{}
	p := NewPublisher(w)

	require.NoError(t, p.Record(context.Background(), sample()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "question-run-1-4", string(w.msgs[0].Key))
}

func TestPublisher_WriteError(t *testing.T) {
	w := &memWriter{err: errors.New("broker down")}
	err := NewPublisher(w).Record(context.Background(), sample())
	assert.EqualError(t, err, "broker down")
}

func TestPublishSubmission_NilWriter(t *testing.T) {
	assert.NoError(t, PublishSubmission(context.Background(), nil, sample()))
}
