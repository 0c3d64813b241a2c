package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hetulpatel/stackseed/internal/app"
	"github.com/hetulpatel/stackseed/internal/cache"
	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/logging"
	"github.com/hetulpatel/stackseed/internal/models"
)

func main() {
	logging.InitFromEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Fatalf("[seed-report] load config: %v", err)
	}

	runID := flag.String("run", "", "show the submissions of one run")
	limit := flag.Int("n", 20, "number of runs to list")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := app.OpenLedger(cfg)
	if err != nil {
		logging.Fatalf("[seed-report] open ledger: %v", err)
	}
	defer store.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if *runID != "" {
		subs, err := store.Submissions(ctx, *runID)
		if err != nil {
			logging.Fatalf("[seed-report] submissions: %v", err)
		}
		fmt.Fprintln(w, "LINE\tSTATUS\tAPI\tERROR\tENDPOINT\tSENT")
		for _, s := range subs {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", s.Line, s.StatusCode, s.APIStatus, s.APIError, s.Endpoint, s.SentAt.Format(time.RFC3339))
		}
		return
	}

	runs, err := store.Runs(ctx, *limit)
	if err != nil {
		logging.Fatalf("[seed-report] runs: %v", err)
	}
	fmt.Fprintln(w, "RUN\tKIND\tSOURCE\tSENT\tREJECTED\tSTARTED\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n", r.RunID, r.Kind, r.Source, r.Sent, r.Rejected, r.StartedAt.Format(time.RFC3339), r.Error)
	}

	if cfg.Redis.Addr == "" {
		return
	}
	stats, err := cache.NewRedisStatsCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 0, cfg.Redis.Prefix)
	if err != nil {
		logging.Errorf("[seed-report] redis stats: %v", err)
		return
	}
	defer stats.Close()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "KIND\tSENT\tBY STATUS")
	for _, kind := range []models.Kind{models.KindQuestion, models.KindUser, models.KindVerify} {
		counts, err := stats.Counts(ctx, kind)
		if err != nil {
			logging.Errorf("[seed-report] counts %s: %v", kind, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%v\n", kind, counts.Sent, counts.ByStatus)
	}
}
