// Package match scores extracted statement identifiers against the reference
// account registry and picks the best bank account for each document.
package match

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

const (
	// acceptThreshold is the minimum cumulative score for a non
	// short-circuit accept.
	acceptThreshold = 5
	// nearMissDistance is the maximum Levenshtein distance for a name to
	// still count as a near miss.
	nearMissDistance = 2

	scoreAccountPartial = 8
	scoreNameExact      = 4
	scoreNameSubstring  = 3
	scoreNameNearMiss   = 3
	scoreCurrency       = 2
)

// Candidate holds the identifiers extracted from one document.
type Candidate struct {
	BankName      string
	CompanyName   string
	AccountNumber string
	Currency      string
}

// Result is the outcome of matching one candidate against the registry.
// Account is nil when no account reached the acceptance threshold; Score and
// Reasons then describe the best rejected candidate.
type Result struct {
	Account *registry.BankAccount
	Score   int
	Reasons []string
}

// Matched reports whether an account was accepted.
func (r Result) Matched() bool { return r.Account != nil }

// Best scores the candidate against every account. An exact cleaned
// account-number match, or containment with agreeing last six digits, accepts
// immediately. Otherwise scores are additive and the highest-scoring account
// wins if it reaches the threshold; below it the document stays unmatched
// rather than being forced onto a low-confidence guess.
func Best(c Candidate, accounts []registry.BankAccount) Result {
	var best Result
	for i := range accounts {
		account := &accounts[i]
		score, reasons, accept := scoreAccount(c, account)
		if accept {
			return Result{Account: account, Score: score, Reasons: reasons}
		}
		if score > best.Score {
			best = Result{Score: score, Reasons: reasons, Account: account}
		}
	}

	if best.Score >= acceptThreshold {
		return best
	}
	return Result{Score: best.Score, Reasons: best.Reasons}
}

func scoreAccount(c Candidate, account *registry.BankAccount) (int, []string, bool) {
	score := 0
	var reasons []string

	extracted := registry.CleanAccountNumber(c.AccountNumber)
	known := registry.CleanAccountNumber(account.AccountNumber)
	if extracted != "" && known != "" {
		switch {
		case extracted == known:
			return 100, []string{"account number exact match"}, true
		case strings.Contains(extracted, known) || strings.Contains(known, extracted):
			if lastN(extracted, 6) == lastN(known, 6) {
				return 100, []string{"account number containment with matching last six digits"}, true
			}
			score += scoreAccountPartial
			reasons = append(reasons, "account number partial containment")
		}
	}

	if s, reason := scoreName("bank name", c.BankName, account.BankName); s > 0 {
		score += s
		reasons = append(reasons, reason)
	}
	if s, reason := scoreName("company name", c.CompanyName, account.CompanyName); s > 0 {
		score += s
		reasons = append(reasons, reason)
	}

	if cur := registry.NormalizeCurrency(c.Currency); cur != "" && cur == registry.NormalizeCurrency(account.Currency) {
		score += scoreCurrency
		reasons = append(reasons, "currency match")
	}

	return score, reasons, false
}

func scoreName(label, extracted, known string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(extracted))
	b := strings.ToLower(strings.TrimSpace(known))
	if a == "" || b == "" {
		return 0, ""
	}
	switch {
	case a == b:
		return scoreNameExact, fmt.Sprintf("%s exact match", label)
	case strings.Contains(a, b) || strings.Contains(b, a):
		return scoreNameSubstring, fmt.Sprintf("%s substring match", label)
	case fuzzy.LevenshteinDistance(a, b) <= nearMissDistance:
		return scoreNameNearMiss, fmt.Sprintf("%s near miss", label)
	}
	return 0, ""
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
