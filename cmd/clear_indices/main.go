package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/logging"
	"github.com/hetulpatel/stackseed/internal/search"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.InitFromEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Fatalf("[clear-indices] load config: %v", err)
	}

	indices := flag.String("indices", strings.Join(cfg.Search.Indices, ","), "comma-separated indices to empty")
	flag.Parse()

	if cfg.Search.URL == "" {
		logging.Fatalf("[clear-indices] SEARCH_URL is required")
	}
	client, err := search.NewClient(search.Config{BaseURL: cfg.Search.URL})
	if err != nil {
		logging.Fatalf("[clear-indices] client: %v", err)
	}

	failed := 0
	for _, index := range strings.Split(*indices, ",") {
		index = strings.TrimSpace(index)
		if index == "" {
			continue
		}
		res, err := client.ClearIndex(ctx, index)
		if err != nil {
			failed++
			logging.Errorf("[clear-indices] %v", err)
			continue
		}
		logging.Infof("[clear-indices] %s: deleted %d of %d documents", index, res.Deleted, res.Total)
	}
	if failed > 0 {
		logging.Fatalf("[clear-indices] %d index(es) could not be cleared", failed)
	}
}
