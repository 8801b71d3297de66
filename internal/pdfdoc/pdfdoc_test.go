package pdfdoc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

func TestCheckProtectionCorruptInput(t *testing.T) {
	_, err := CheckProtection([]byte("this is not a pdf"))
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("CheckProtection on garbage = %v, want ErrCorrupt", err)
	}
}

func TestOpenCorruptInput(t *testing.T) {
	_, err := Open([]byte{0x00, 0x01, 0x02}, nil)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Open on garbage = %v, want ErrCorrupt", err)
	}
}

func TestPasswordCandidatesOrder(t *testing.T) {
	account := &registry.BankAccount{BankName: "Equity Bank", Password: "stored-pw"}

	got := PasswordCandidates("caller-pw", "file-pw", account, "0100-2345-6789", "Equity Bank")
	want := []string{
		"caller-pw",
		"file-pw",
		"stored-pw",
		"456789",       // last six digits of the detected account number
		"010023456789", // full cleaned account number
		"equity123",
		"equity2023",
		"equity2024",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PasswordCandidates order:\n got %v\nwant %v", got, want)
	}
}

func TestPasswordCandidatesSkipsEmptyAndDuplicates(t *testing.T) {
	got := PasswordCandidates("", "7788", nil, "7788", "")
	want := []string{"7788"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PasswordCandidates = %v, want %v", got, want)
	}
}

func TestPasswordCandidatesBankNameFromAccount(t *testing.T) {
	account := &registry.BankAccount{BankName: "KCB Bank"}

	got := PasswordCandidates("", "", account, "", "")
	want := []string{"kcb123", "kcb2023", "kcb2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PasswordCandidates = %v, want %v", got, want)
	}
}

func TestUnlockExhaustsCandidates(t *testing.T) {
	// Candidates that cannot open anything must surface the distinguished
	// password-required error, not a silent drop.
	_, err := Unlock([]byte("%PDF-1.4 garbage"), []string{"a", "b"})
	if !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("Unlock = %v, want ErrPasswordRequired", err)
	}
}
