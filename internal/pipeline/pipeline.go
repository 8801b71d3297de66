// Package pipeline orchestrates bulk statement extraction: documents are
// unlocked and read, their text is chunked into bounded extraction requests,
// responses are parsed back per document, matched against the account
// registry and expanded into per-month records. Every input document yields
// exactly one outcome; individual failures never abort the batch.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/imodoiepale/kra-tools-sub000/internal/credpool"
	"github.com/imodoiepale/kra-tools-sub000/internal/logger"
	"github.com/imodoiepale/kra-tools-sub000/internal/match"
	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// DefaultWorkers bounds concurrent extraction calls. Small on purpose: the
// external API is rate limited and the credential pool is shared.
const DefaultWorkers = 4

// Options tunes one batch run.
type Options struct {
	// ChunkBudget is the per-chunk character limit; 0 selects
	// DefaultChunkBudget.
	ChunkBudget int
	// Workers bounds parallel chunk dispatch; 0 selects DefaultWorkers.
	Workers int
}

// Result is the outcome of one batch run.
type Result struct {
	BatchID  string
	Outcomes []ExtractionOutcome
	// Succeeded counts outcomes without a failure.
	Succeeded int
	// Failed counts failed outcomes per failure code.
	Failed map[FailureCode]int
	// PoolDegraded is set when the credential pool hard-reset during the
	// run; the batch itself still completes.
	PoolDegraded bool
}

// Pipeline runs extraction batches. Construct with New; the zero value is
// not usable.
type Pipeline struct {
	client  *ExtractionClient
	pool    *credpool.Pool
	opts    Options
	prepare textPreparer
}

// New builds a pipeline over the credential pool. The model name may be
// empty to use the default.
func New(pool *credpool.Pool, model string, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.ChunkBudget <= 0 {
		opts.ChunkBudget = DefaultChunkBudget
	}
	return &Pipeline{
		client:  NewExtractionClient(pool, model),
		pool:    pool,
		opts:    opts,
		prepare: prepareDocument,
	}
}

// Run processes one batch. The target month is assumed for any document
// whose statement period cannot be parsed. The returned result holds exactly
// one outcome per input document, sorted by document index.
func (p *Pipeline) Run(ctx context.Context, docs []SourceDocument, accounts []registry.BankAccount, target MonthYear) *Result {
	batchID := uuid.New().String()
	log := logger.ForComponent(logger.FromContext(ctx), "pipeline").With().Str("batch_id", batchID).Logger()
	ctx = logger.WithContext(ctx, log)

	outcomes := make([]ExtractionOutcome, len(docs))
	for i := range docs {
		docs[i].Index = i
		outcomes[i] = ExtractionOutcome{DocumentIndex: i, Filename: docs[i].Filename}
	}

	log.Info().Int("documents", len(docs)).Msg("batch started")

	texts := p.prepareAll(ctx, docs, accounts, outcomes)
	chunks := BuildChunks(texts, p.opts.ChunkBudget)
	log.Info().Int("chunks", len(chunks)).Msg("documents chunked")

	records := p.extractAll(ctx, chunks, outcomes)

	for i := range outcomes {
		if outcomes[i].Failure != nil {
			continue
		}
		record, ok := records[i]
		if !ok {
			// Totality guarantee: a document the response never
			// accounted for still gets an outcome.
			outcomes[i].Failure = failuref(FailureMalformedResult, "no extraction result found for document %d", i)
			continue
		}
		p.finalize(&outcomes[i], record, accounts, target)
	}

	sort.Slice(outcomes, func(a, b int) bool {
		return outcomes[a].DocumentIndex < outcomes[b].DocumentIndex
	})

	result := &Result{
		BatchID:      batchID,
		Outcomes:     outcomes,
		Failed:       make(map[FailureCode]int),
		PoolDegraded: p.pool.Degraded(),
	}
	for i := range outcomes {
		if outcomes[i].Failure == nil {
			result.Succeeded++
		} else {
			result.Failed[outcomes[i].Failure.Code]++
		}
	}

	if result.PoolDegraded {
		log.Warn().Msg("credential pool hard-reset during batch; rate limits were not honored")
	}
	log.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", len(docs)-result.Succeeded).
		Msg("batch finished")

	return result
}

// prepareAll unlocks and reads documents with bounded parallelism. Failures
// are written straight into the outcome slots; only readable documents
// produce chunker input.
func (p *Pipeline) prepareAll(ctx context.Context, docs []SourceDocument, accounts []registry.BankAccount, outcomes []ExtractionOutcome) []DocumentText {
	log := logger.FromContext(ctx)

	type prepResult struct {
		index        int
		text         string
		unlockedWith string
		failure      *Failure
	}

	jobs := make(chan int)
	results := make([]prepResult, len(docs))

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				text, unlockedWith, failure := p.prepare(docs[i], accounts)
				results[i] = prepResult{index: i, text: text, unlockedWith: unlockedWith, failure: failure}
			}
		}()
	}
	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var texts []DocumentText
	for _, res := range results {
		if res.failure != nil {
			outcomes[res.index].Failure = res.failure
			log.Warn().
				Int("document_index", res.index).
				Str("code", string(res.failure.Code)).
				Msg("document preparation failed")
			continue
		}
		outcomes[res.index].UnlockedWith = res.unlockedWith
		texts = append(texts, DocumentText{
			Index:    res.index,
			Filename: docs[res.index].Filename,
			Text:     res.text,
		})
	}
	return texts
}

// extractAll dispatches chunks to bounded workers and parses the responses.
// After cancellation no new chunk goes out; already queued chunks are marked
// failed so their documents are still accounted for.
func (p *Pipeline) extractAll(ctx context.Context, chunks []Chunk, outcomes []ExtractionOutcome) map[int]*ExtractionRecord {
	log := logger.FromContext(ctx)

	type chunkResult struct {
		chunk    Chunk
		response string
		err      error
	}

	chunkCh := make(chan Chunk)
	resultCh := make(chan chunkResult)

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range chunkCh {
				if err := ctx.Err(); err != nil {
					resultCh <- chunkResult{chunk: chunk, err: err}
					continue
				}
				response, err := p.client.ExtractChunk(ctx, chunk)
				resultCh <- chunkResult{chunk: chunk, response: response, err: err}
			}
		}()
	}
	go func() {
		for _, chunk := range chunks {
			chunkCh <- chunk
		}
		close(chunkCh)
		wg.Wait()
		close(resultCh)
	}()

	records := make(map[int]*ExtractionRecord)
	for res := range resultCh {
		if res.err != nil {
			for _, idx := range res.chunk.Indices {
				outcomes[idx].Failure = NewFailure(FailureExtractionAPI, "extraction call failed after retries", res.err)
			}
			continue
		}
		parsed := ParseResults(res.response, res.chunk.Indices)
		log.Debug().
			Ints("documents", res.chunk.Indices).
			Int("parsed", len(parsed)).
			Msg("chunk response parsed")
		for idx, record := range parsed {
			records[idx] = record
		}
	}
	return records
}

// finalize matches a parsed record against the registry and expands its
// statement period into concrete months.
func (p *Pipeline) finalize(outcome *ExtractionOutcome, record *ExtractionRecord, accounts []registry.BankAccount, target MonthYear) {
	outcome.Record = record

	res := match.Best(match.Candidate{
		BankName:      record.BankName,
		CompanyName:   record.CompanyName,
		AccountNumber: record.AccountNumber,
		Currency:      record.Currency,
	}, accounts)
	outcome.MatchScore = res.Score
	if res.Matched() {
		outcome.Account = res.Account
	} else {
		// The record is kept alongside the failure so the document can
		// be resolved manually.
		outcome.Failure = failuref(FailureNoMatchFound, "best match score %d is below the acceptance threshold", res.Score)
	}

	if period, ok := ParsePeriod(record.StatementPeriod); ok {
		outcome.Months = period.Expand()
	} else {
		outcome.Months = []MonthYear{target}
		outcome.Warnings = append(outcome.Warnings,
			failuref(FailureUnparsablePeriod, "statement period %q is not parsable, assuming target month", record.StatementPeriod))
	}
}
