// Command graphfeed loads a spreadsheet-backed relational graph into a
// relational store: the node roster sheet into the nodes table and the
// adjacency matrix sheet, normalized to a sparse edge list, into the
// edges table. Both loads are full replacements, so every run is
// idempotent.
//
// By default it runs on the configured daily cron cadence until
// interrupted; with -once it performs a single run and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"graphfeed/internal/config"
	"graphfeed/internal/pipeline"
	"graphfeed/internal/repository/sqldb"
	"graphfeed/internal/schedule"
	"graphfeed/internal/source"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	once := flag.Bool("once", false, "run the pipeline once and exit instead of scheduling")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*configPath, *once, log); err != nil {
		log.Error("graphfeed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, once bool, log *slog.Logger) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if path != "" {
		log.Info("config loaded", "path", path)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dsn, err := cfg.ResolveDSN()
	if err != nil {
		return err
	}

	loader, err := sqldb.New(cfg.Database.Driver, dsn)
	if err != nil {
		return err
	}
	defer loader.Close()
	log.Info("destination opened", "driver", cfg.Database.Driver)

	runner := pipeline.New(
		source.NewXLSX(cfg.Source.Path),
		loader,
		pipeline.Options{
			NodesSheet:      cfg.Source.NodesSheet,
			MatrixSheet:     cfg.Source.MatrixSheet,
			NodesSkipRows:   cfg.Source.NodesSkipRows,
			MatrixHeaderRow: cfg.Source.MatrixHeaderRow,
			MatrixLabelCols: cfg.Source.MatrixLabelCols,
		},
		log,
	)

	if once {
		result := runner.Run(context.Background())
		if result.Err() != nil {
			return fmt.Errorf("run failed at %s: %w", result.FailedStep(), result.Err())
		}
		return nil
	}

	sched, err := schedule.New(cfg.Schedule.Cron, cfg.Schedule.Timezone, func() {
		result := runner.Run(context.Background())
		if result.Err() != nil {
			log.Error("scheduled run failed",
				"step", result.FailedStep(), "error", result.Err())
		}
	}, log)
	if err != nil {
		return err
	}

	sched.Start()
	log.Info("scheduler started",
		"cron", cfg.Schedule.Cron, "timezone", cfg.Schedule.Timezone, "next", sched.Next())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	// Let a run in progress finish; interrupting a replace mid-flight
	// is what the transactional loader exists to prevent.
	<-sched.Stop().Done()
	return nil
}
