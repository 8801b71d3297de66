package registry

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currencyAliases maps free-text currency spellings to ISO 4217 codes.
// Keys are upper-case with surrounding punctuation already trimmed.
var currencyAliases = map[string]string{
	"KSH":              "KES",
	"KSHS":             "KES",
	"K.SH":             "KES",
	"KENYA SHILLING":   "KES",
	"KENYA SHILLINGS":  "KES",
	"KENYAN SHILLING":  "KES",
	"KENYAN SHILLINGS": "KES",
	"SHILLING":         "KES",
	"SHILLINGS":        "KES",
	"US DOLLAR":        "USD",
	"US DOLLARS":       "USD",
	"DOLLAR":           "USD",
	"DOLLARS":          "USD",
	"US$":              "USD",
	"$":                "USD",
	"EURO":             "EUR",
	"EUROS":            "EUR",
	"€":                "EUR",
	"POUND":            "GBP",
	"POUNDS":           "GBP",
	"POUND STERLING":   "GBP",
	"STERLING":         "GBP",
	"£":                "GBP",
}

// NormalizeCurrency maps a free-text currency name or code to a canonical ISO
// code. Valid ISO codes pass through unchanged; unknown input yields "".
func NormalizeCurrency(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.Trim(s, ".,:;")
	if s == "" {
		return ""
	}
	if code, ok := currencyAliases[s]; ok {
		return code
	}
	if money.GetCurrency(s) != nil {
		return s
	}
	return ""
}

// ParseAmount extracts a decimal amount from a currency-formatted string such
// as "KES 1,234.56" or "(500.00)". Unparsable or empty input yields nil,
// never zero: absence and zero are distinct states downstream.
func ParseAmount(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" ||
		strings.EqualFold(s, "null") || strings.EqualFold(s, "nil") ||
		strings.EqualFold(s, "n/a") || strings.EqualFold(s, "na") {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "." {
		return nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	if negative {
		d = d.Neg()
	}
	return &d
}
