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
		logging.Fatalf("[add-questions] load config: %v", err)
	}

	file := flag.String("file", cfg.Questions.DataPath, "line-delimited JSON question dataset")
	limit := flag.Int("limit", cfg.Questions.Limit, "maximum number of questions to post")
	flag.Parse()

	if cfg.Questions.Cookie == "" {
		logging.Infof("[add-questions] SEED_COOKIE is empty; the service will likely reject unauthenticated posts")
	}
	client, err := stackapi.NewClient(stackapi.Config{
		BaseURL:       cfg.API.QAURL,
		Timeout:       cfg.API.Timeout(),
		SessionCookie: cfg.Questions.Cookie,
		TraceToken:    cfg.Questions.TraceToken,
	})
	if err != nil {
		logging.Fatalf("[add-questions] client: %v", err)
	}

	env := app.Open(ctx, "add-questions", cfg)
	defer env.Close()

	data, err := env.Inputs.Open(ctx, *file)
	if err != nil {
		env.Close()
		logging.Fatalf("[add-questions] open dataset: %v", err)
	}
	defer data.Close()

	effective := seed.QuestionLimit(*limit)
	if effective < 0 {
		logging.Infof("[add-questions] posting every question from %s to %s", *file, client.BaseURL())
	} else {
		logging.Infof("[add-questions] posting up to %d questions from %s to %s", effective, *file, client.BaseURL())
	}
	stats, err := seed.Questions(ctx, data, client, env.Options(effective))
	env.Finish(ctx, stats, *file, err)
	if err != nil {
		env.Close()
		logging.Fatalf("[add-questions] %v", err)
	}
	logging.Infof("[add-questions] done: %d sent, %d rejected", stats.Sent, stats.Failed)
}
