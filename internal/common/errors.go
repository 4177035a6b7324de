// Package common holds error kinds shared across the conversion pipeline.
package common

import "errors"

// Error kinds. Callers wrap these with context and test them with errors.Is.
var (
	// ErrIO covers files that cannot be opened, read or written.
	ErrIO = errors.New("io error")
	// ErrFormat covers unparsable amounts or dates and exports with no header row.
	ErrFormat = errors.New("format error")
	// ErrValidation is returned when merged records break a ledger invariant.
	ErrValidation = errors.New("validation failed")
	// ErrConfig covers unrecognized selectors, flags and rule files.
	ErrConfig = errors.New("invalid configuration")
)
