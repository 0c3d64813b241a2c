package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hetulpatel/stackseed/internal/cache"
	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/kafka"
	"github.com/hetulpatel/stackseed/internal/logging"
	"github.com/hetulpatel/stackseed/internal/queue"
	"github.com/hetulpatel/stackseed/internal/seed"
	"github.com/hetulpatel/stackseed/internal/source"
	sqlstore "github.com/hetulpatel/stackseed/internal/storage/sqlite"
)

const (
	statsTTL    = 240 * time.Hour
	pingTimeout = 2 * time.Second
)

// Env carries the config and the optional submission sinks shared by the seeders.
type Env struct {
	Config *config.Config
	Ledger *sqlstore.Store
	Stats  cache.StatsCache
	Inputs *source.Opener

	name      string
	writer    *kafkago.Writer
	recorders []seed.Recorder
}

// Open wires every sink enabled in cfg. Sinks are optional: one that cannot be
// reached is logged and skipped so seeding still goes ahead.
func Open(ctx context.Context, name string, cfg *config.Config) *Env {
	env := &Env{
		Config: cfg,
		Inputs: source.NewOpener(source.S3Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}),
		name: name,
	}

	if cfg.Ledger.Path != "" {
		store, err := sqlstore.Open(cfg.Ledger.Path)
		if err != nil {
			logging.Errorf("[%s] open ledger: %v", name, err)
		} else {
			env.Ledger = store
			env.recorders = append(env.recorders, seed.RecorderFunc(store.RecordSubmission))
		}
	}

	if cfg.Redis.Addr != "" {
		stats, err := cache.NewRedisStatsCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, statsTTL, cfg.Redis.Prefix)
		if err == nil {
			err = pingStats(ctx, stats)
			if err != nil {
				stats.Close()
			}
		}
		if err != nil {
			logging.Errorf("[%s] redis stats disabled: %v", name, err)
		} else {
			env.Stats = stats
			env.recorders = append(env.recorders, stats)
		}
	}

	if cfg.Kafka.Enabled {
		if writer := setupWriter(ctx, name, cfg.Kafka); writer != nil {
			env.writer = writer
			env.recorders = append(env.recorders, queue.NewPublisher(writer))
		}
	}
	return env
}

// OpenLedger opens the configured ledger for the maintenance tools. Unlike Open
// it fails when SEED_LEDGER_PATH is unset, since the seeders record nothing then.
func OpenLedger(cfg *config.Config) (*sqlstore.Store, error) {
	if cfg.Ledger.Path == "" {
		return nil, fmt.Errorf("SEED_LEDGER_PATH is required")
	}
	return sqlstore.Open(cfg.Ledger.Path)
}

func pingStats(ctx context.Context, stats cache.StatsCache) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return stats.Ping(pingCtx)
}

func setupWriter(ctx context.Context, name string, cfg config.KafkaConfig) *kafkago.Writer {
	brokers := kafka.Brokers(cfg.Brokers)

	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()
	if err := kafka.WaitForBroker(waitCtx, brokers); err != nil {
		logging.Errorf("[%s] wait for broker: %v", name, err)
		return nil
	}

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	defer cancelEnsure()
	if err := kafka.EnsureTopic(ensureCtx, brokers, cfg.Topic); err != nil {
		logging.Infof("[%s] ensure topic warning: %v", name, err)
	}
	logging.Infof("[%s] publishing submissions to %s", name, cfg.Topic)
	return kafka.NewWriter(brokers, cfg.Topic)
}

// Recorders returns the sinks every submission is fanned out to.
func (e *Env) Recorders() []seed.Recorder {
	return append([]seed.Recorder(nil), e.recorders...)
}

// Options builds run options wired to the configured sinks.
func (e *Env) Options(limit int) seed.Options {
	return seed.Options{Limit: limit, Recorders: e.Recorders()}
}

// Finish stores the run summary in the ledger when one is open.
func (e *Env) Finish(ctx context.Context, stats seed.Stats, source string, runErr error) {
	if e.Ledger == nil || stats.RunID == "" {
		return
	}
	run := sqlstore.Run{
		RunID:      stats.RunID,
		Kind:       stats.Kind,
		Source:     source,
		Sent:       stats.Sent,
		Rejected:   stats.Failed,
		StartedAt:  stats.StartedAt,
		FinishedAt: stats.FinishedAt,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	// Saved even when the run was interrupted.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := e.Ledger.SaveRun(saveCtx, run); err != nil {
		logging.Errorf("[%s] save run: %v", e.name, err)
	}
}

// Close releases every sink.
func (e *Env) Close() error {
	var errs []error
	if e.writer != nil {
		errs = append(errs, e.writer.Close())
	}
	if e.Stats != nil {
		errs = append(errs, e.Stats.Close())
	}
	if e.Ledger != nil {
		errs = append(errs, e.Ledger.Close())
	}
	return errors.Join(errs...)
}
