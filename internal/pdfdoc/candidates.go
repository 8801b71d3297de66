package pdfdoc

import (
	"strings"

	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// PasswordCandidates builds the candidate list for a protected document, in
// priority order: the caller-supplied password, the filename-detected
// password, the matched account's stored password, the last six digits and
// full value of any detected account number, then bank-name suffix guesses.
// Empty entries and duplicates are dropped while preserving order.
func PasswordCandidates(callerPassword, filenamePassword string, account *registry.BankAccount, detectedAccountNumber, bankName string) []string {
	var candidates []string

	candidates = append(candidates, callerPassword, filenamePassword)

	if account != nil {
		candidates = append(candidates, account.Password)
		if bankName == "" {
			bankName = account.BankName
		}
	}

	if cleaned := registry.CleanAccountNumber(detectedAccountNumber); cleaned != "" {
		if len(cleaned) > 6 {
			candidates = append(candidates, cleaned[len(cleaned)-6:])
		}
		candidates = append(candidates, cleaned)
	}

	if token := bankToken(bankName); token != "" {
		candidates = append(candidates, token+"123", token+"2023", token+"2024")
	}

	return dedupe(candidates)
}

// bankToken reduces a bank name to its lowercase first word, the part users
// tend to build passwords from ("Equity Bank" yields "equity").
func bankToken(bankName string) string {
	fields := strings.Fields(strings.ToLower(bankName))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func dedupe(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
