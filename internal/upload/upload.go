// Package upload defines the boundary to the external upload coordinator,
// which owns persistence of per-month statement records. The pipeline hands
// records over here and nothing in this repository stores them durably; the
// in-memory recorder exists for the CLI and tests.
package upload

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/imodoiepale/kra-tools-sub000/internal/pipeline"
	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// MonthRecord is one (account, month, year) row derived from a statement. A
// multi-month statement produces one MonthRecord per covered month, all
// carrying the same DocumentIndex: one uploaded file deliberately services
// every month it covers.
type MonthRecord struct {
	DocumentIndex  int
	AccountID      string
	BankName       string
	Month          int
	Year           int
	Currency       string
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
	StatementPage  int
}

// Coordinator receives month records for persistence. Implementations must
// upsert idempotently on (account, month, year): replaying the same
// statement updates rather than duplicates.
type Coordinator interface {
	Upsert(ctx context.Context, record MonthRecord) error
}

// RecordsFor flattens one successful outcome into its month records. The
// matched account supplies the identity; months come from the expanded
// statement period, with balances attached where the extraction produced
// them.
func RecordsFor(outcome pipeline.ExtractionOutcome, account *registry.BankAccount) []MonthRecord {
	if account == nil || outcome.Record == nil {
		return nil
	}

	balanceByMonth := make(map[pipeline.MonthYear]pipeline.MonthlyBalance)
	for _, b := range outcome.Record.MonthlyBalances {
		balanceByMonth[pipeline.MonthYear{Month: b.Month, Year: b.Year}] = b
	}

	currency := outcome.Record.Currency
	if currency == "" {
		currency = account.Currency
	}

	records := make([]MonthRecord, 0, len(outcome.Months))
	for _, my := range outcome.Months {
		record := MonthRecord{
			DocumentIndex: outcome.DocumentIndex,
			AccountID:     account.ID,
			BankName:      account.BankName,
			Month:         my.Month,
			Year:          my.Year,
			Currency:      currency,
		}
		if b, ok := balanceByMonth[my]; ok {
			record.OpeningBalance = b.OpeningBalance
			record.ClosingBalance = b.ClosingBalance
			record.StatementPage = b.StatementPage
		}
		records = append(records, record)
	}
	return records
}

type recordKey struct {
	accountID string
	month     int
	year      int
}

// MemoryRecorder is an in-memory Coordinator with the required idempotent
// upsert semantics.
type MemoryRecorder struct {
	mu      sync.Mutex
	records map[recordKey]MonthRecord
}

// NewMemoryRecorder creates an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{records: make(map[recordKey]MonthRecord)}
}

// Upsert stores the record, replacing any existing row for the same
// (account, month, year).
func (r *MemoryRecorder) Upsert(_ context.Context, record MonthRecord) error {
	if record.AccountID == "" {
		return fmt.Errorf("Upsert: record has no account ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey{record.AccountID, record.Month, record.Year}] = record
	return nil
}

// All returns a copy of every stored record.
func (r *MemoryRecorder) All() []MonthRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MonthRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

// Len returns the number of distinct (account, month, year) rows stored.
func (r *MemoryRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
