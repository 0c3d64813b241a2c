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
		logging.Fatalf("[add-users] load config: %v", err)
	}

	file := flag.String("file", cfg.Users.CSVPath, "username,email,password CSV")
	flag.Parse()

	client, err := stackapi.NewClient(stackapi.Config{
		BaseURL: cfg.API.UsersURL,
		Timeout: cfg.API.Timeout(),
	})
	if err != nil {
		logging.Fatalf("[add-users] client: %v", err)
	}

	env := app.Open(ctx, "add-users", cfg)
	defer env.Close()

	csv, err := env.Inputs.Open(ctx, *file)
	if err != nil {
		env.Close()
		logging.Fatalf("[add-users] open users file: %v", err)
	}
	defer csv.Close()

	logging.Infof("[add-users] registering users from %s at %s", *file, client.BaseURL())
	stats, err := seed.Users(ctx, csv, client, env.Options(0))
	env.Finish(ctx, stats, *file, err)
	if err != nil {
		env.Close()
		logging.Fatalf("[add-users] %v", err)
	}
	logging.Infof("[add-users] done: %d sent, %d rejected", stats.Sent, stats.Failed)
}
