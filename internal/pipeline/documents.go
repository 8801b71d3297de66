package pipeline

import (
	"errors"
	"sort"
	"strings"

	"github.com/imodoiepale/kra-tools-sub000/internal/filescan"
	"github.com/imodoiepale/kra-tools-sub000/internal/pdfdoc"
	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// textPreparer unlocks one document and extracts its bounded page text.
// Tests substitute this to run the pipeline without real PDF bytes.
type textPreparer func(doc SourceDocument, accounts []registry.BankAccount) (text, unlockedWith string, failure *Failure)

// prepareDocument is the production preparer: filename signals feed the
// password candidate list, the document is opened (unlocking it if needed)
// and the first/last page text is pulled out for chunking.
func prepareDocument(doc SourceDocument, accounts []registry.BankAccount) (string, string, *Failure) {
	signals := filescan.Detect(doc.Filename)

	var hinted *registry.BankAccount
	if signals.AccountNumber != "" {
		hinted = registry.FindByAccountNumber(accounts, signals.AccountNumber)
	}
	if hinted == nil && signals.BankName != "" {
		hinted = registry.FindByBankName(accounts, signals.BankName)
	}

	candidates := pdfdoc.PasswordCandidates(doc.Password, signals.Password, hinted, signals.AccountNumber, signals.BankName)

	opened, err := pdfdoc.Open(doc.Data, candidates)
	if err != nil {
		switch {
		case errors.Is(err, pdfdoc.ErrPasswordRequired):
			return "", "", NewFailure(FailurePasswordRequired, "no candidate password unlocked the document", err)
		default:
			return "", "", NewFailure(FailureCorruptDocument, "document could not be opened", err)
		}
	}

	pages, err := opened.ExtractBoundedText()
	if err != nil {
		return "", "", NewFailure(FailureCorruptDocument, "page text extraction failed", err)
	}

	return joinPages(pages), opened.Password, nil
}

func joinPages(pages map[int]string) string {
	numbers := make([]int, 0, len(pages))
	for n := range pages {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if pages[n] == "" {
			continue
		}
		parts = append(parts, pages[n])
	}
	return strings.Join(parts, "\n\n")
}
