package registry

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso code passthrough", "KES", "KES"},
		{"lowercase iso code", "usd", "USD"},
		{"ksh alias", "KSH", "KES"},
		{"kshs alias", "Kshs", "KES"},
		{"kenya shillings", "Kenya Shillings", "KES"},
		{"trailing dot", "KSH.", "KES"},
		{"dollar word", "Dollars", "USD"},
		{"euro word", "euro", "EUR"},
		{"pound sterling", "Pound Sterling", "GBP"},
		{"whitespace trimmed", "  GBP  ", "GBP"},
		{"unknown currency", "doubloons", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCurrency(tt.input); got != tt.want {
				t.Errorf("NormalizeCurrency(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	amount := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	tests := []struct {
		name  string
		input string
		want  *decimal.Decimal
	}{
		{"currency prefix with thousands", "KES 1,234.56", amount("1234.56")},
		{"plain number", "500", amount("500")},
		{"decimal only", "0.75", amount("0.75")},
		{"negative sign", "-1,000.00", amount("-1000.00")},
		{"parenthesized negative", "(500.00)", amount("-500.00")},
		{"symbol prefix", "$2,500.10", amount("2500.10")},
		{"null literal", "null", nil},
		{"n/a literal", "N/A", nil},
		{"empty string", "", nil},
		{"dash placeholder", "-", nil},
		{"no digits", "pending", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseAmount(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseAmount(%q) = nil, want %v", tt.input, tt.want)
			}
			if !got.Equal(*tt.want) {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAmountNeverZeroForAbsent(t *testing.T) {
	// Absent values must stay absent; a nil result must never be read as 0.
	for _, input := range []string{"", "null", "N/A", "--"} {
		if got := ParseAmount(input); got != nil {
			t.Errorf("ParseAmount(%q) = %v, want nil", input, got)
		}
	}
}
