package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/imodoiepale/kra-tools-sub000/internal/credpool"
	"github.com/imodoiepale/kra-tools-sub000/internal/gcsdocs"
	"github.com/imodoiepale/kra-tools-sub000/internal/logger"
	"github.com/imodoiepale/kra-tools-sub000/internal/pipeline"
	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
	"github.com/imodoiepale/kra-tools-sub000/internal/upload"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runBatch(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Extraction CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  extract <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  run       Run an extraction batch over a directory or GCS prefix")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nEnvironment:")
	fmt.Println("  GEMINI_API_KEYS   comma-separated extraction API keys (required)")
	fmt.Println("  GEMINI_MODEL      model name override (optional)")
	fmt.Println("\nRun 'extract run -h' for run options.")
}

func runBatch(log zerolog.Logger) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dir := fs.String("dir", "", "local directory of statement PDFs")
	gcsBucket := fs.String("gcs-bucket", "", "GCS bucket holding statement objects")
	gcsPrefix := fs.String("gcs-prefix", "", "GCS object prefix")
	accountsPath := fs.String("accounts", "", "JSON file with the bank account registry")
	month := fs.Int("month", int(time.Now().Month()), "target month assumed when a statement period cannot be parsed")
	year := fs.Int("year", time.Now().Year(), "target year assumed when a statement period cannot be parsed")
	workers := fs.Int("workers", 0, "extraction worker count (default 4)")
	fs.Parse(os.Args[2:])

	if *dir == "" && (*gcsBucket == "" || *gcsPrefix == "") {
		log.Fatal().Msg("Error: either -dir or -gcs-bucket with -gcs-prefix is required")
	}
	if *accountsPath == "" {
		log.Fatal().Msg("Error: -accounts is required")
	}

	keys, model := loadConfig(log)

	accounts, err := loadAccounts(*accountsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading account registry failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var docs []pipeline.SourceDocument
	if *dir != "" {
		docs, err = gcsdocs.FromDir(*dir)
	} else {
		docs, err = gcsdocs.FromGCS(ctx, *gcsBucket, *gcsPrefix)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Collecting documents failed")
	}
	if len(docs) == 0 {
		log.Fatal().Msg("No statement PDFs found")
	}

	pool := credpool.New(keys)
	p := pipeline.New(pool, model, pipeline.Options{Workers: *workers})
	target := pipeline.MonthYear{Month: *month, Year: *year}

	result := p.Run(ctx, docs, accounts, target)

	recorder := upload.NewMemoryRecorder()
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

	printReport(result, recorder.Len())
	if result.Succeeded < len(result.Outcomes) {
		os.Exit(1)
	}
}

// loadConfig reads the environment, with .env support for local runs.
func loadConfig(log zerolog.Logger) ([]string, string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	raw := os.Getenv("GEMINI_API_KEYS")
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		log.Fatal().Msg("Error: GEMINI_API_KEYS is required")
	}

	return keys, os.Getenv("GEMINI_MODEL")
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

func printReport(result *pipeline.Result, monthRows int) {
	fmt.Printf("\nBatch %s\n", result.BatchID)
	fmt.Printf("%-6s %-35s %-20s %-10s %s\n", "INDEX", "FILE", "BANK", "MONTHS", "STATUS")
	for _, o := range result.Outcomes {
		bank := "-"
		if o.Account != nil {
			bank = o.Account.BankName
		}
		status := "ok"
		if o.Failure != nil {
			status = string(o.Failure.Code)
		}
		for _, w := range o.Warnings {
			status += " (" + string(w.Code) + ")"
		}
		fmt.Printf("%-6d %-35s %-20s %-10d %s\n", o.DocumentIndex, truncate(o.Filename, 35), bank, len(o.Months), status)
	}
	fmt.Printf("\n%d succeeded, %d failed, %d month rows recorded\n", result.Succeeded, len(result.Outcomes)-result.Succeeded, monthRows)
	if result.PoolDegraded {
		fmt.Println("warning: credential pool was exhausted and hard-reset during this run")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
