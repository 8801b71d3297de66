package registry

import "strings"

// BankAccount is one entry of the caller-supplied reference registry.
// The pipeline treats it as immutable.
type BankAccount struct {
	ID            string
	BankName      string
	AccountNumber string
	Currency      string
	CompanyID     string
	CompanyName   string
	// Password is the stored statement password for this account, if known.
	Password string
}

// bankGazetteer lists known bank-name fragments, longest/most specific first,
// with the canonical display name each fragment resolves to.
var bankGazetteer = []struct {
	fragment  string
	canonical string
}{
	{"standard chartered", "Standard Chartered"},
	{"stanchart", "Standard Chartered"},
	{"diamond trust", "Diamond Trust Bank"},
	{"co-operative", "Co-operative Bank"},
	{"cooperative", "Co-operative Bank"},
	{"co-op", "Co-operative Bank"},
	{"national bank", "National Bank"},
	{"bank of baroda", "Bank of Baroda"},
	{"bank of africa", "Bank of Africa"},
	{"family bank", "Family Bank"},
	{"prime bank", "Prime Bank"},
	{"sidian", "Sidian Bank"},
	{"barclays", "Barclays"},
	{"citibank", "Citibank"},
	{"stanbic", "Stanbic Bank"},
	{"ecobank", "Ecobank"},
	{"gtbank", "GTBank"},
	{"guaranty trust", "GTBank"},
	{"equity", "Equity Bank"},
	{"absa", "Absa Bank"},
	{"ncba", "NCBA Bank"},
	{"hdfc", "HDFC Bank"},
	{"dtb", "Diamond Trust Bank"},
	{"kcb", "KCB Bank"},
	{"i&m", "I&M Bank"},
	{"im bank", "I&M Bank"},
	{"uba", "UBA Bank"},
}

// DetectBankName scans s for a known bank-name fragment and returns the
// canonical bank name, or "" when nothing matches. Matching is
// case-insensitive substring matching, most specific fragments first.
func DetectBankName(s string) string {
	lower := strings.ToLower(s)
	for _, entry := range bankGazetteer {
		if strings.Contains(lower, entry.fragment) {
			return entry.canonical
		}
	}
	return ""
}

// FindByAccountNumber returns the account whose cleaned account number equals
// or contains the cleaned candidate (or vice versa), or nil.
func FindByAccountNumber(accounts []BankAccount, number string) *BankAccount {
	cleaned := CleanAccountNumber(number)
	if cleaned == "" {
		return nil
	}
	for i := range accounts {
		other := CleanAccountNumber(accounts[i].AccountNumber)
		if other == "" {
			continue
		}
		if other == cleaned || strings.Contains(other, cleaned) || strings.Contains(cleaned, other) {
			return &accounts[i]
		}
	}
	return nil
}

// FindByBankName returns the first account whose bank name matches the
// detected canonical bank name, or nil.
func FindByBankName(accounts []BankAccount, bankName string) *BankAccount {
	if bankName == "" {
		return nil
	}
	lower := strings.ToLower(bankName)
	for i := range accounts {
		if strings.Contains(strings.ToLower(accounts[i].BankName), lower) ||
			strings.Contains(lower, strings.ToLower(accounts[i].BankName)) {
			return &accounts[i]
		}
	}
	return nil
}

// CleanAccountNumber strips spaces, dashes and dots so account numbers from
// different sources compare on digits alone.
func CleanAccountNumber(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '\t':
			return -1
		}
		return r
	}, s)
}
