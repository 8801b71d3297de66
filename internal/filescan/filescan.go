// Package filescan detects password, account-number and bank-name hints in
// statement filenames. Detection is pure string work: no file or network I/O.
package filescan

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// Signals holds the hints recovered from one filename. Every field is
// optional and the detectors are independent of each other.
type Signals struct {
	Password      string
	AccountNumber string
	BankName      string
}

var (
	labeledPasswordPattern = regexp.MustCompile(`(?i)(?:pass(?:word)?|pwd|pin|code)[\s_\-:=.]*([a-zA-Z0-9]+)`)
	labeledAccountPattern  = regexp.MustCompile(`(?i)(?:acc(?:ount)?|a/c|no|#)[\s_\-:=.]*([0-9]+)`)
	digitRunPattern        = regexp.MustCompile(`[0-9]+`)
)

// Detect runs all three detectors against the filename.
func Detect(filename string) Signals {
	return Signals{
		Password:      DetectPassword(filename),
		AccountNumber: DetectAccountNumber(filename),
		BankName:      registry.DetectBankName(filename),
	}
}

// DetectPassword recovers a password candidate from the filename. It tries
// labeled patterns first ("pass", "pwd", "pin", "code" followed by 4-12
// alphanumerics), then an unlabeled non-year 6-12 digit run excluding the
// last such run (presumed to be the account number), then any non-year 4-8
// digit run, preferring the last.
func DetectPassword(filename string) string {
	name := stripExtension(filename)

	for _, m := range labeledPasswordPattern.FindAllStringSubmatch(name, -1) {
		if n := len(m[1]); n >= 4 && n <= 12 {
			return m[1]
		}
	}

	runs := digitRunPattern.FindAllString(name, -1)

	var mid []string
	for _, r := range runs {
		if len(r) >= 6 && len(r) <= 12 && !isYear(r) {
			mid = append(mid, r)
		}
	}
	if len(mid) >= 2 {
		return mid[0]
	}

	var short []string
	for _, r := range runs {
		if len(r) >= 4 && len(r) <= 8 && !isYear(r) {
			short = append(short, r)
		}
	}
	if len(short) > 0 {
		return short[len(short)-1]
	}
	return ""
}

// DetectAccountNumber recovers an account-number candidate: an indicator-
// labeled 6-16 digit run ("acc", "account", "a/c", "no", "#") first, then
// any bare 6-16 digit run, preferring the last.
func DetectAccountNumber(filename string) string {
	name := stripExtension(filename)

	for _, m := range labeledAccountPattern.FindAllStringSubmatch(name, -1) {
		if n := len(m[1]); n >= 6 && n <= 16 {
			return m[1]
		}
	}

	runs := digitRunPattern.FindAllString(name, -1)
	for i := len(runs) - 1; i >= 0; i-- {
		if n := len(runs[i]); n >= 6 && n <= 16 && !isYear(runs[i]) {
			return runs[i]
		}
	}
	return ""
}

func stripExtension(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2099
}
