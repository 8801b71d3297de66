package filescan

import "testing"

func TestDetect(t *testing.T) {
	got := Detect("Statement_pass-7788_acc123456789.pdf")
	if got.Password != "7788" {
		t.Errorf("Password = %q, want %q", got.Password, "7788")
	}
	if got.AccountNumber != "123456789" {
		t.Errorf("AccountNumber = %q, want %q", got.AccountNumber, "123456789")
	}
}

func TestDetectPassword(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"labeled pass", "Statement_pass-7788_acc123456789.pdf", "7788"},
		{"labeled pwd", "stmt_pwd_x9k2m4.pdf", "x9k2m4"},
		{"labeled pin", "equity_PIN1234.pdf", "1234"},
		{"labeled code with separator", "march_code=secret99.pdf", "secret99"},
		{"two unlabeled runs prefers earlier long run", "stmt_445566_99887766.pdf", "445566"},
		{"single long run falls through to short rule", "stmt_7788_99887766554.pdf", "7788"},
		{"short run preferred last", "doc_1122_3344.pdf", "3344"},
		{"year is not a password", "statement_2024.pdf", ""},
		{"nothing to find", "statement.pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPassword(tt.filename); got != tt.want {
				t.Errorf("DetectPassword(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectAccountNumber(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"labeled acc", "Statement_pass-7788_acc123456789.pdf", "123456789"},
		{"labeled account word", "account_00112233_jan.pdf", "00112233"},
		{"labeled no", "stmt_no-8765432.pdf", "8765432"},
		{"bare run prefers last", "stmt_445566_99887766.pdf", "99887766"},
		{"year ignored", "statement_2024.pdf", ""},
		{"too short ignored", "doc_12345.pdf", ""},
		{"nothing to find", "statement.pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectAccountNumber(tt.filename); got != tt.want {
				t.Errorf("DetectAccountNumber(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectBankNameSignal(t *testing.T) {
	got := Detect("Equity_Statement_March.pdf")
	if got.BankName != "Equity Bank" {
		t.Errorf("BankName = %q, want %q", got.BankName, "Equity Bank")
	}
}
