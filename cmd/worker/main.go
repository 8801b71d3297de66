package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/imodoiepale/kra-tools-sub000/internal/credpool"
	"github.com/imodoiepale/kra-tools-sub000/internal/gcsdocs"
	"github.com/imodoiepale/kra-tools-sub000/internal/jobs"
	"github.com/imodoiepale/kra-tools-sub000/internal/jobs/inmemory"
	"github.com/imodoiepale/kra-tools-sub000/internal/logger"
	"github.com/imodoiepale/kra-tools-sub000/internal/pipeline"
	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
	"github.com/imodoiepale/kra-tools-sub000/internal/upload"
)

func main() {
	log := logger.New()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	keys := splitKeys(os.Getenv("GEMINI_API_KEYS"))
	if len(keys) == 0 {
		log.Fatal().Msg("GEMINI_API_KEYS is required")
	}
	model := os.Getenv("GEMINI_MODEL")

	accountsPath := os.Getenv("ACCOUNTS_FILE")
	if accountsPath == "" {
		log.Fatal().Msg("ACCOUNTS_FILE is required")
	}
	accounts, err := loadAccounts(accountsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading account registry failed")
	}

	pool := credpool.New(keys)
	p := pipeline.New(pool, model, pipeline.Options{})
	recorder := upload.NewMemoryRecorder()

	// In production the queue would be replaced with Cloud Tasks or
	// Pub/Sub behind the same interfaces.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting extraction worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	handler := func(ctx context.Context, job jobs.Job) error {
		batchJob, ok := job.(*jobs.ExtractBatchJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", batchJob.JobID).
			Str("source_dir", batchJob.SourceDir).
			Str("gcs_prefix", batchJob.GCSPrefix).
			Msg("Processing extraction batch")

		var docs []pipeline.SourceDocument
		var err error
		if batchJob.SourceDir != "" {
			docs, err = gcsdocs.FromDir(batchJob.SourceDir)
		} else {
			docs, err = gcsdocs.FromGCS(ctx, batchJob.GCSBucket, batchJob.GCSPrefix)
		}
		if err != nil {
			log.Error().Err(err).Str("job_id", batchJob.JobID).Msg("Collecting documents failed")
			return err
		}

		target := pipeline.MonthYear{Month: batchJob.TargetMonth, Year: batchJob.TargetYear}
		result := p.Run(ctx, docs, accounts, target)

		for _, outcome := range result.Outcomes {
			if !outcome.Succeeded() {
				continue
			}
			for _, record := range upload.RecordsFor(outcome, outcome.Account) {
				if err := recorder.Upsert(ctx, record); err != nil {
					log.Error().Err(err).Int("document_index", outcome.DocumentIndex).Msg("Recording month row failed")
				}
			}
		}

		batchJob.BatchID = result.BatchID
		batchJob.Succeeded = result.Succeeded
		batchJob.Failed = len(result.Outcomes) - result.Succeeded

		log.Info().
			Str("job_id", batchJob.JobID).
			Str("batch_id", result.BatchID).
			Int("succeeded", result.Succeeded).
			Int("failed", batchJob.Failed).
			Msg("Extraction batch completed")

		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker exited")
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func loadAccounts(path string) ([]registry.BankAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadAccounts: %w", err)
	}
	var accounts []registry.BankAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("loadAccounts: parsing %s: %w", path, err)
	}
	return accounts, nil
}
