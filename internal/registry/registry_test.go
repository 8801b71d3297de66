package registry

import "testing"

func TestDetectBankName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"equity fragment", "equity_statement_jan.pdf", "Equity Bank"},
		{"kcb uppercase", "KCB-2024-03.pdf", "KCB Bank"},
		{"standard chartered beats chartered", "standard chartered acc 1234", "Standard Chartered"},
		{"dtb abbreviation", "DTB_stmt.pdf", "Diamond Trust Bank"},
		{"cooperative spelled out", "Cooperative Bank March.pdf", "Co-operative Bank"},
		{"no match", "statement_march_2024.pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBankName(tt.input); got != tt.want {
				t.Errorf("DetectBankName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanAccountNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0100-2345-6789", "010023456789"},
		{"0100 2345 6789", "010023456789"},
		{"0100.2345.6789", "010023456789"},
		{"0100234567", "0100234567"},
	}

	for _, tt := range tests {
		if got := CleanAccountNumber(tt.input); got != tt.want {
			t.Errorf("CleanAccountNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindByAccountNumber(t *testing.T) {
	accounts := []BankAccount{
		{ID: "a1", BankName: "Equity Bank", AccountNumber: "0100-2345-6789"},
		{ID: "a2", BankName: "KCB Bank", AccountNumber: "1122334455"},
	}

	if got := FindByAccountNumber(accounts, "010023456789"); got == nil || got.ID != "a1" {
		t.Errorf("exact cleaned match: got %v, want a1", got)
	}
	if got := FindByAccountNumber(accounts, "334455"); got == nil || got.ID != "a2" {
		t.Errorf("suffix containment: got %v, want a2", got)
	}
	if got := FindByAccountNumber(accounts, "9999999999"); got != nil {
		t.Errorf("no match: got %v, want nil", got)
	}
	if got := FindByAccountNumber(accounts, ""); got != nil {
		t.Errorf("empty candidate: got %v, want nil", got)
	}
}

func TestFindByBankName(t *testing.T) {
	accounts := []BankAccount{
		{ID: "a1", BankName: "Equity Bank"},
		{ID: "a2", BankName: "KCB Bank"},
	}

	if got := FindByBankName(accounts, "Equity Bank"); got == nil || got.ID != "a1" {
		t.Errorf("bank name match: got %v, want a1", got)
	}
	if got := FindByBankName(accounts, ""); got != nil {
		t.Errorf("empty name: got %v, want nil", got)
	}
}
