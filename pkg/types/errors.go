package types

import (
	"errors"
	"fmt"
)

// Interpolation errors.
var (
	ErrOutOfRange       = errors.New("value outside table range")
	ErrNoBracket        = errors.New("could not bracket value")
	ErrInsufficientData = errors.New("not enough data to interpolate")
	ErrUnknownProperty  = errors.New("unknown property")
)

// Table store errors.
var (
	ErrMissingTable  = errors.New("required table not found")
	ErrTableNotFound = errors.New("table not found")
)

// Cycle model errors.
var (
	ErrUnresolvedSaturationData = errors.New("saturation data could not be resolved")
	ErrEfficiencyInvalid        = errors.New("efficiency must be a positive number")
	ErrTopologyInvalid          = errors.New("invalid cycle pressure ordering")
	ErrUnknownTemplate          = errors.New("unknown cycle template")
	ErrInvalidInput             = errors.New("invalid input value")
)

// Dataset storage errors.
var (
	ErrDatabaseClosed = errors.New("dataset database is closed")
	ErrNoTables       = errors.New("dataset has no tables")
)

// Workflow errors.
var (
	ErrUnknownWorkflow = errors.New("unknown workflow")
)

// Solver errors.
var (
	ErrSearchRangeInvalid = errors.New("invalid search range")
	ErrNotBracketed       = errors.New("target metric could not be bracketed")
	ErrDOFMismatch        = errors.New("degree-of-freedom mismatch")
)

// RangeError reports a lookup input that falls outside the range a table can
// answer. It unwraps to ErrOutOfRange.
type RangeError struct {
	Key   string
	Value float64
	Min   float64
	Max   float64

	// Detail replaces the default message when set.
	Detail string
}

func (e *RangeError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s = %s is outside %s to %s",
		e.Key, FormatNumber(e.Value), FormatNumber(e.Min), FormatNumber(e.Max))
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Range returns the valid interval carried by the error.
func (e *RangeError) Range() Range {
	return Range{Min: e.Min, Max: e.Max}
}

// NotBracketedError reports that no sign change of the residual was found in
// the search interval. It unwraps to ErrNotBracketed.
type NotBracketedError struct {
	Min     float64
	Max     float64
	Closest float64 // smallest absolute residual seen while sampling
}

func (e *NotBracketedError) Error() string {
	return fmt.Sprintf("target metric could not be bracketed in [%s, %s]; closest residual %s",
		FormatNumber(e.Min), FormatNumber(e.Max), FormatNumber(e.Closest))
}

func (e *NotBracketedError) Unwrap() error {
	return ErrNotBracketed
}
