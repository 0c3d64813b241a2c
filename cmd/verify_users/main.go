package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/hetulpatel/stackseed/internal/app"
	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/logging"
	"github.com/hetulpatel/stackseed/internal/seed"
	"github.com/hetulpatel/stackseed/internal/stackapi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.InitFromEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Fatalf("[verify-users] load config: %v", err)
	}

	file := flag.String("file", cfg.Verify.CSVPath, "username,email,password CSV")
	flag.Parse()

	if cfg.Verify.Key == "" {
		logging.Fatalf("[verify-users] SEED_VERIFY_KEY is required")
	}
	client, err := stackapi.NewClient(stackapi.Config{
		BaseURL: cfg.API.QAURL,
		Timeout: cfg.API.Timeout(),
	})
	if err != nil {
		logging.Fatalf("[verify-users] client: %v", err)
	}

	env := app.Open(ctx, "verify-users", cfg)
	defer env.Close()

	csv, err := env.Inputs.Open(ctx, *file)
	if err != nil {
		env.Close()
		logging.Fatalf("[verify-users] open users file: %v", err)
	}
	defer csv.Close()

	logging.Infof("[verify-users] verifying users from %s at %s", *file, client.BaseURL())
	stats, err := seed.Verify(ctx, csv, client, cfg.Verify.Key, env.Options(0))
	env.Finish(ctx, stats, *file, err)
	if err != nil {
		env.Close()
		logging.Fatalf("[verify-users] %v", err)
	}
	logging.Infof("[verify-users] done: %d sent, %d rejected", stats.Sent, stats.Failed)
}
