package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// SourceDocument is one uploaded statement file. Index is assigned by the
// pipeline before processing starts and is the stable identity used to
// correlate chunked API responses back to their source.
type SourceDocument struct {
	Index    int
	Filename string
	// Password is the caller-supplied password, if any.
	Password string
	Data     []byte
}

// MonthYear identifies one calendar month.
type MonthYear struct {
	Month int // 1-12
	Year  int
}

// StatementPeriod is the inclusive range a statement covers. End is always
// chronologically >= Start.
type StatementPeriod struct {
	Start MonthYear
	End   MonthYear
}

// MonthlyBalance is one month's opening/closing balance as extracted from a
// statement. Balances are nil when the model returned null or an unparsable
// value; absence is never rendered as zero.
type MonthlyBalance struct {
	Month          int
	Year           int
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
	StatementPage  int
}

// ExtractionRecord is the structured result for one document, immutable
// after parsing.
type ExtractionRecord struct {
	BankName        string
	CompanyName     string
	AccountNumber   string
	Currency        string
	StatementPeriod string
	MonthlyBalances []MonthlyBalance
}

// ExtractionOutcome pairs a document index with either a successful record
// or a typed failure. For a FailureNoMatchFound outcome the record is kept so
// operators can resolve the match manually.
type ExtractionOutcome struct {
	DocumentIndex int
	Filename      string
	Record        *ExtractionRecord
	// Account is the matched registry account, nil when unmatched.
	Account    *registry.BankAccount
	MatchScore int
	// Months is the expanded list of calendar months the statement covers,
	// falling back to the caller's target month when the period text was
	// unparsable.
	Months  []MonthYear
	Failure *Failure
	// Warnings carries non-fatal conditions such as an unparsable period.
	Warnings []*Failure
	// UnlockedWith records the password candidate that opened a protected
	// document, "" otherwise.
	UnlockedWith string
}

// Succeeded reports whether the document produced a usable record.
func (o *ExtractionOutcome) Succeeded() bool {
	return o.Failure == nil
}
