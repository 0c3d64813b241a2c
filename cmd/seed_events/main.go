package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/kafka"
	"github.com/hetulpatel/stackseed/internal/logging"
	"github.com/hetulpatel/stackseed/internal/models"
	"github.com/hetulpatel/stackseed/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.InitFromEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Fatalf("[seed-events] load config: %v", err)
	}

	workerCount := flag.Int("workers", 1, "number of consumers")
	rejectedOnly := flag.Bool("rejected", false, "only print rejected submissions")
	flag.Parse()

	brokers := kafka.Brokers(cfg.Kafka.Brokers)
	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	if err := kafka.WaitForBroker(waitCtx, brokers); err != nil {
		logging.Fatalf("[seed-events] wait for broker: %v", err)
	}
	cancel()

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	if err := kafka.EnsureTopic(ensureCtx, brokers, cfg.Kafka.Topic); err != nil {
		logging.Infof("[seed-events] ensure topic warning: %v", err)
	}
	cancelEnsure()

	logging.Infof("[seed-events] consuming %s with group %s (%d workers)", cfg.Kafka.Topic, cfg.Kafka.Group, *workerCount)
	workers.Run(ctx, brokers, cfg.Kafka.Topic, cfg.Kafka.Group, *workerCount, func(_ context.Context, sub *models.Submission) error {
		if *rejectedOnly && sub.OK() {
			return nil
		}
		logging.Infof("[seed-events] %s run=%s line=%d status=%d %s %s", sub.Kind, sub.RunID, sub.Line, sub.StatusCode, sub.APIStatus, sub.APIError)
		return nil
	})
}
