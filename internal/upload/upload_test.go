package upload

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imodoiepale/kra-tools-sub000/internal/pipeline"
	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

func TestRecordsForMultiMonthSharesDocumentIndex(t *testing.T) {
	opening := decimal.NewFromInt(1000)
	closing := decimal.NewFromInt(2000)

	outcome := pipeline.ExtractionOutcome{
		DocumentIndex: 7,
		Record: &pipeline.ExtractionRecord{
			Currency: "KES",
			MonthlyBalances: []pipeline.MonthlyBalance{
				{Month: 11, Year: 2023, OpeningBalance: &opening, ClosingBalance: &closing, StatementPage: 2},
			},
		},
		Months: []pipeline.MonthYear{{Month: 11, Year: 2023}, {Month: 12, Year: 2023}, {Month: 1, Year: 2024}},
	}
	account := &registry.BankAccount{ID: "a1", BankName: "Equity Bank", Currency: "KES"}

	records := RecordsFor(outcome, account)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, 7, rec.DocumentIndex, "every derived month references the same source document")
		assert.Equal(t, "a1", rec.AccountID)
		assert.Equal(t, "KES", rec.Currency)
	}

	// Balances attach only to the month the extraction reported.
	require.NotNil(t, records[0].OpeningBalance)
	assert.True(t, records[0].OpeningBalance.Equal(opening))
	assert.Equal(t, 2, records[0].StatementPage)
	assert.Nil(t, records[1].OpeningBalance)
	assert.Nil(t, records[2].ClosingBalance)
}

func TestRecordsForUnmatchedOutcome(t *testing.T) {
	outcome := pipeline.ExtractionOutcome{Record: &pipeline.ExtractionRecord{}}
	assert.Nil(t, RecordsFor(outcome, nil))
}

func TestMemoryRecorderIdempotentUpsert(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	first := MonthRecord{AccountID: "a1", Month: 1, Year: 2024, StatementPage: 1}
	require.NoError(t, recorder.Upsert(ctx, first))

	updated := first
	updated.StatementPage = 3
	require.NoError(t, recorder.Upsert(ctx, updated))

	assert.Equal(t, 1, recorder.Len(), "same account+month+year must update, not duplicate")
	assert.Equal(t, 3, recorder.All()[0].StatementPage)
}

func TestMemoryRecorderDistinctKeys(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	require.NoError(t, recorder.Upsert(ctx, MonthRecord{AccountID: "a1", Month: 1, Year: 2024}))
	require.NoError(t, recorder.Upsert(ctx, MonthRecord{AccountID: "a1", Month: 2, Year: 2024}))
	require.NoError(t, recorder.Upsert(ctx, MonthRecord{AccountID: "a2", Month: 1, Year: 2024}))

	assert.Equal(t, 3, recorder.Len())
}

func TestMemoryRecorderRejectsMissingAccount(t *testing.T) {
	recorder := NewMemoryRecorder()
	err := recorder.Upsert(context.Background(), MonthRecord{Month: 1, Year: 2024})
	assert.Error(t, err)
}
