package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hetulpatel/stackseed/internal/hashutil"
	"github.com/hetulpatel/stackseed/internal/logging"
	"github.com/hetulpatel/stackseed/internal/models"
	"github.com/hetulpatel/stackseed/internal/stackapi"
)

// Reader yields records one at a time with their line numbers and returns
// io.EOF when the input is exhausted.
type Reader[T any] interface {
	Next() (T, int, error)
}

// SubmitFunc sends one record.
type SubmitFunc[T any] func(ctx context.Context, rec T) (*stackapi.Result, error)

// Recorder receives every completed submission.
type Recorder interface {
	Record(ctx context.Context, sub models.Submission) error
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(ctx context.Context, sub models.Submission) error

func (f RecorderFunc) Record(ctx context.Context, sub models.Submission) error {
	return f(ctx, sub)
}

// Options shape a single run.
type Options struct {
	RunID string
	// Limit caps the number of requests; zero or less means no cap.
	Limit     int
	Recorders []Recorder
	Now       func() time.Time
}

// Stats summarizes a run.
type Stats struct {
	RunID      string
	Kind       models.Kind
	Sent       int
	Failed     int
	LastLine   int
	StartedAt  time.Time
	FinishedAt time.Time
}

func (o *Options) normalize() {
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Run reads every record from r and submits it, one request at a time. A parse
// or transport failure stops the run and is returned alongside the stats so
// far. Non-2xx responses are logged and counted but never retried.
func Run[T any](ctx context.Context, kind models.Kind, r Reader[T], submit SubmitFunc[T], opts Options) (Stats, error) {
	opts.normalize()
	stats := Stats{RunID: opts.RunID, Kind: kind, StartedAt: opts.Now().UTC()}

	logging.Infof("[%s] run %s started", kind, opts.RunID)
	for {
		if err := ctx.Err(); err != nil {
			stats.FinishedAt = opts.Now().UTC()
			return stats, err
		}
		if opts.Limit > 0 && stats.Sent >= opts.Limit {
			logging.Infof("[%s] reached limit of %d requests", kind, opts.Limit)
			break
		}

		rec, line, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.FinishedAt = opts.Now().UTC()
			return stats, err
		}

		sentAt := opts.Now()
		res, err := submit(ctx, rec)
		if err != nil {
			stats.FinishedAt = opts.Now().UTC()
			return stats, fmt.Errorf("line %d: %w", line, err)
		}

		stats.Sent++
		stats.LastLine = line
		if res.OK() {
			logging.Debugf("[%s] line %d -> %s", kind, line, res.Summary())
		} else {
			stats.Failed++
			logging.Infof("[%s] line %d rejected: %s", kind, line, res.Summary())
		}

		sub := models.NewSubmission(opts.RunID, kind, line, res, hashutil.HashBytes(res.Payload), sentAt)
		for _, sink := range opts.Recorders {
			if err := sink.Record(ctx, sub); err != nil {
				logging.Errorf("[%s] record line %d: %v", kind, line, err)
			}
		}
	}

	stats.FinishedAt = opts.Now().UTC()
	logging.Infof("[%s] run %s finished: %d sent, %d rejected", kind, opts.RunID, stats.Sent, stats.Failed)
	return stats, nil
}
