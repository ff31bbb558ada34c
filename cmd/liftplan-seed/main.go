// liftplan-seed loads an exercise catalog into Postgres so the server's
// catalog table matches the YAML the planner runs from. Idempotent: existing
// rows are updated in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/config"
	"github.com/claude/liftplan/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	catalogPath := flag.String("catalog", "", "catalog YAML file (default: built-in catalog)")
	dryRun := flag.Bool("dry-run", false, "validate the catalog but don't write to the database")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftplan-seed", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var cat *catalog.Catalog
	var err error
	if *catalogPath != "" {
		cat, err = catalog.Load(*catalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "exercises", len(cat.Exercises))

	if *dryRun {
		log.Info("dry-run: catalog valid, nothing written")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	inserted, err := db.UpsertExercises(ctx, cat.Exercises)
	if err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	// Upserts never delete, so the table can hold rows dropped from the
	// catalog. Read it back and point those out.
	stored, err := db.ListExercises(ctx, "")
	if err != nil {
		log.Error("reading back exercises failed", "error", err)
		os.Exit(1)
	}
	known := make(map[string]bool, len(cat.Exercises))
	for _, ex := range cat.Exercises {
		known[ex.ID] = true
	}
	var stale []string
	for _, ex := range stored {
		if !known[ex.ID] {
			stale = append(stale, ex.ID)
		}
	}
	if len(stale) > 0 {
		log.Warn("exercises in database but not in catalog", "ids", stale)
	}
	log.Info("catalog seeded", "upserted", inserted, "total", len(stored))
}
