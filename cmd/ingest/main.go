package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-sync-ingest/internal/config"
	"go-sync-ingest/internal/model"
	"go-sync-ingest/internal/pipeline"
	"go-sync-ingest/internal/source"
	"go-sync-ingest/internal/store"
	"go-sync-ingest/pkg/logger"
)

func main() {
	var (
		sourceType     string
		manualSync     bool
		providerManual bool
	)

	cmd := &cobra.Command{
		Use:          "ingest <source>",
		Short:        "Run one batch of sync records through the ingestion pipeline",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := model.SyncFlags{IsManualSync: manualSync, IsProviderManualSync: providerManual}
			return run(cmd, source.Source{Type: sourceType, URL: args[0]}, flags)
		},
	}
	cmd.Flags().StringVar(&sourceType, "type", "json", "source type: json, csv or api")
	cmd.Flags().BoolVar(&manualSync, "manual", false, "mark the batch as a manual sync")
	cmd.Flags().BoolVar(&providerManual, "provider-manual", false, "mark the batch as a provider manual sync")
	config.RegisterFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, src source.Source, flags model.SyncFlags) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = pipeline.DefaultChunkSize
	}

	log, err := logger.NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx := context.Background()
	batch, err := source.ReadBatch(ctx, src)
	if err != nil {
		return err
	}
	log.Info("batch loaded", zap.String("source", src.URL), zap.Int("records", len(batch)))

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

	batchID := uuid.New().String()
	chunkCount := (len(batch) + cfg.ChunkSize - 1) / cfg.ChunkSize
	if err := st.SaveBatch(batchID, len(batch), chunkCount, flags); err != nil {
		return err
	}

	resultCh := make(chan model.PipelineResult, 1)
	orc.ProcessBatch(ctx, batch, flags, st.TrackerFor(batchID, log), func(r model.PipelineResult) {
		resultCh <- r
	})
	result := <-resultCh

	log.Info("batch result",
		zap.String("batch", batchID),
		zap.String("status", result.Status.String()),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped))
	for _, msg := range result.ErrorStrings() {
		log.Warn("batch error", zap.String("error", msg))
	}

	if result.Status == model.StatusFailure {
		return fmt.Errorf("batch %s failed: %d errors", batchID, len(result.Errors))
	}
	return nil
}
