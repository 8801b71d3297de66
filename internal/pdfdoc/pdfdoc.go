// Package pdfdoc opens statement PDFs, resolves passwords for encrypted
// ones, and extracts a bounded amount of page text for the extraction API.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrPasswordRequired is returned when a protected document could not
	// be unlocked with any candidate password.
	ErrPasswordRequired = errors.New("pdfdoc: password required")
	// ErrCorrupt is returned when a document is unreadable for reasons
	// other than password protection.
	ErrCorrupt = errors.New("pdfdoc: corrupt or unreadable document")
)

// Protection is the result of the encryption check.
type Protection int

const (
	NotProtected Protection = iota
	NeedsPassword
)

// Document is an opened, readable statement PDF.
type Document struct {
	reader *pdf.Reader
	// Password is the candidate that unlocked the document, "" when the
	// document was not protected.
	Password string
}

// CheckProtection reports whether the document needs a password. The policy
// is explicit and single-sited: the library's password error means protected,
// any other open error means corrupt. An arbitrary I/O failure must not be
// mistaken for encryption.
func CheckProtection(data []byte) (Protection, error) {
	_, err := open(data, "")
	if err == nil {
		return NotProtected, nil
	}
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return NeedsPassword, nil
	}
	return NotProtected, fmt.Errorf("CheckProtection: %w: %v", ErrCorrupt, err)
}

// Open checks protection and, when needed, tries the candidate passwords in
// order. The returned Document records which candidate worked.
func Open(data []byte, candidates []string) (*Document, error) {
	protection, err := CheckProtection(data)
	if err != nil {
		return nil, err
	}
	if protection == NotProtected {
		r, err := open(data, "")
		if err != nil {
			return nil, fmt.Errorf("Open: %w: %v", ErrCorrupt, err)
		}
		return &Document{reader: r}, nil
	}
	return Unlock(data, candidates)
}

// Unlock tries each candidate password in order against a protected
// document. A candidate counts as working only when the first page is
// actually readable with it. Exhausting the list returns
// ErrPasswordRequired so the caller can surface a distinguished failure.
func Unlock(data []byte, candidates []string) (*Document, error) {
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}

		r, err := open(data, candidate)
		if err != nil {
			continue
		}
		if err := verifyFirstPage(r); err != nil {
			continue
		}
		return &Document{reader: r, Password: candidate}, nil
	}
	return nil, ErrPasswordRequired
}

// ExtractBoundedText returns the text of page 1 and the last page, keyed by
// page number. Only those two pages are read: statements can run to dozens
// of pages and the extraction API payload must stay small.
func (d *Document) ExtractBoundedText() (map[int]string, error) {
	numPages := d.reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("ExtractBoundedText: %w: document has no pages", ErrCorrupt)
	}

	wanted := []int{1}
	if numPages > 1 {
		wanted = append(wanted, numPages)
	}

	texts := make(map[int]string, len(wanted))
	for _, pageNum := range wanted {
		text, err := extractPageText(d.reader, pageNum)
		if err != nil {
			return nil, fmt.Errorf("ExtractBoundedText: page %d: %w: %v", pageNum, ErrCorrupt, err)
		}
		texts[pageNum] = text
	}
	return texts, nil
}

// open wraps the pdf library with a recover guard; it is known to panic on
// malformed input.
func open(data []byte, password string) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf library panic: %v", rec)
		}
	}()

	br := bytes.NewReader(data)
	if password == "" {
		return pdf.NewReader(br, int64(len(data)))
	}

	attempts := 0
	return pdf.NewReaderEncrypted(br, int64(len(data)), func() string {
		attempts++
		if attempts > 1 {
			return ""
		}
		return password
	})
}

func verifyFirstPage(r *pdf.Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf library panic: %v", rec)
		}
	}()

	if r.NumPage() == 0 {
		return errors.New("document has no pages")
	}
	_, err = extractPageText(r, 1)
	return err
}

func extractPageText(r *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf library panic: %v", rec)
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", pageNum)
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}

	text, err = page.GetPlainText(fonts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
