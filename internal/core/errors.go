package core

import (
	"errors"
)

// Kind classifies failures so the transport layer can pick a status code.
type Kind string

const (
	// KindConfig: missing spreadsheet id or unusable credentials.
	KindConfig Kind = "config"
	// KindTransport: the row source could not be read.
	KindTransport Kind = "transport"
	// KindSchema: a column required by a strict operation is absent.
	KindSchema Kind = "schema"
	// KindValidation: the request is missing a required parameter.
	KindValidation Kind = "validation"
)

var (
	// ErrMissingName is returned by the certificate lookup for an empty query.
	// The text is shown to end users as-is.
	ErrMissingName = errors.New("Informe um nome")

	// ErrMissingColumn is returned when a strict operation lacks a column.
	ErrMissingColumn = errors.New("missing required column")
)

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind      Kind
	Op        string
	Err       error
	Transient bool
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTransient reports whether retrying the request later may succeed.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Transient
}
