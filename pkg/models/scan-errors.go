package models

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrorKind classifies the errors that abort a scan.
type ErrorKind string

const (
	ConfigurationError     ErrorKind = "ConfigurationError"
	FileError              ErrorKind = "FileError"
	UnsupportedFormatError ErrorKind = "UnsupportedFormatError"
	ProtocolError          ErrorKind = "ProtocolError"
)

// ScanError is an error that ends the scan. Every kind is fatal; the kind only
// tells the reader which stage gave up.
type ScanError struct {
	Kind    ErrorKind
	Message string // human readable, printed as-is
	Err     error  // underlying cause, may be nil
}

func (e *ScanError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// NewScanError returns a ScanError of the given kind.
func NewScanError(kind ErrorKind, err error, format string, args ...interface{}) *ScanError {
	return &ScanError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first ScanError found in err's chain, or an
// empty kind when there is none.
func KindOf(err error) ErrorKind {
	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return scanErr.Kind
	}
	return ""
}

// IsKind reports whether err carries a ScanError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// Flatten returns the individual errors held by err. A multierror is expanded,
// anything else is returned as a single item.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}
