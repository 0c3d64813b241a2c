package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/stackseed/internal/models"
)

type chanReader struct {
	msgs   chan kafkago.Message
	closed bool
	mu     sync.Mutex
}

func (c *chanReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	select {
	case <-ctx.Done():
		return kafkago.Message{}, ctx.Err()
	case m := <-c.msgs:
		return m, nil
	}
}

func (c *chanReader) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestRunWith_DeliversSubmissions(t *testing.T) {
	reader := &chanReader{msgs: make(chan kafkago.Message, 3)}
	reader.msgs <- kafkago.Message{Value: []byte(`{"run_id":"r1","kind":"user","line":1,"status_code":200}`)}
	reader.msgs <- kafkago.Message{Value: []byte(`not json`)}
	reader.msgs <- kafkago.Message{Value: []byte(`{"run_id":"r1","kind":"user","line":2,"status_code":400}`)}

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan models.Submission, 3)

	done := make(chan struct{})
	go func() {
		RunWith(ctx, 1, func() MessageReader { return reader }, func(_ context.Context, sub *models.Submission) error {
			got <- *sub
			return nil
		})
		close(done)
	}()

	var subs []models.Submission
	for len(subs) < 2 {
		select {
		case s := <-got:
			subs = append(subs, s)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for submissions")
		}
	}
	cancel()
	<-done

	require.Len(t, subs, 2)
	assert.Equal(t, 1, subs[0].Line)
	assert.Equal(t, 400, subs[1].StatusCode)
	assert.Equal(t, models.KindUser, subs[1].Kind)

	reader.mu.Lock()
	assert.True(t, reader.closed)
	reader.mu.Unlock()
}
