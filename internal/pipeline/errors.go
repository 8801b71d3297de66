package pipeline

import "fmt"

// FailureCode classifies why a document could not be processed.
type FailureCode string

const (
	// FailurePasswordRequired means no candidate unlocked the document;
	// recoverable by the caller supplying a password.
	FailurePasswordRequired FailureCode = "password_required"
	// FailureCorruptDocument means the document is unreadable independent
	// of password protection.
	FailureCorruptDocument FailureCode = "corrupt_document"
	// FailureExtractionAPI means the extraction call failed after
	// exhausting retries.
	FailureExtractionAPI FailureCode = "extraction_api_failure"
	// FailureMalformedResult means the API response held no parsable
	// record for this document; siblings in the chunk are unaffected.
	FailureMalformedResult FailureCode = "malformed_extraction_result"
	// FailureNoMatchFound means the match score stayed below the
	// acceptance threshold. Not an error condition: the record is kept
	// and the document awaits manual resolution.
	FailureNoMatchFound FailureCode = "no_match_found"
	// FailureUnparsablePeriod is a non-fatal warning: the statement
	// period text could not be parsed and the caller's target month was
	// assumed.
	FailureUnparsablePeriod FailureCode = "unparsable_period"
)

// Failure is a typed, per-document failure. It is attributed to one document
// index and returned in the batch result set, never thrown in a way that
// aborts sibling documents.
type Failure struct {
	Code    FailureCode
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Failure) Unwrap() error { return f.Cause }

// NewFailure builds a Failure with an optional cause.
func NewFailure(code FailureCode, message string, cause error) *Failure {
	return &Failure{Code: code, Message: message, Cause: cause}
}

func failuref(code FailureCode, format string, args ...interface{}) *Failure {
	return &Failure{Code: code, Message: fmt.Sprintf(format, args...)}
}
