package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "go-sync-ingest/docs"
	"go-sync-ingest/internal/api"
	"go-sync-ingest/internal/api/handler"
	"go-sync-ingest/internal/config"
	"go-sync-ingest/internal/pipeline"
	"go-sync-ingest/internal/store"
	"go-sync-ingest/pkg/logger"
	"go-sync-ingest/pkg/router"
)

// @title Sync Ingest API
// @version 1.0
// @description Batch ingestion API for loosely-typed sync records.
// @BasePath /api/v1
func main() {
	cmd := &cobra.Command{
		Use:          "ingest-api",
		Short:        "HTTP API for the sync batch ingestion pipeline",
		SilenceUsage: true,
		RunE:         run,
	}
	config.RegisterFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	orc := pipeline.New(st, log, pipeline.Options{
		ChunkSize:      cfg.ChunkSize,
		QueueCapacity:  cfg.QueueCapacity,
		PersistRetries: cfg.PersistRetries,
	})
	defer orc.Stop()

	r := router.New(log)
	api.RegisterRoutes(r, handler.New(orc, st, log))

	return r.Start(cfg.Addr)
}
