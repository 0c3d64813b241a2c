package main

import (
	"context"
	"flag"

	"github.com/hetulpatel/stackseed/internal/app"
	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/logging"
)

func main() {
	logging.InitFromEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Fatalf("[ledger-tables] load config: %v", err)
	}

	action := flag.String("action", "create", "create (schema is also ensured on every open) | clear | drop")
	flag.Parse()

	store, err := app.OpenLedger(cfg)
	if err != nil {
		logging.Fatalf("[ledger-tables] open ledger: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	switch *action {
	case "create":
		err = store.CreateTables(ctx)
	case "clear":
		err = store.ClearTables(ctx)
	case "drop":
		err = store.DropTables(ctx)
	default:
		store.Close()
		logging.Fatalf("[ledger-tables] unknown action %q", *action)
	}
	if err != nil {
		store.Close()
		logging.Fatalf("[ledger-tables] %s tables: %v", *action, err)
	}
	logging.Infof("[ledger-tables] %s done at %s", *action, store.Path())
}
