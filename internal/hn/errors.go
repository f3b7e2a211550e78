package hn

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrTransport covers network failures and non-200 responses.
	ErrTransport = errors.New("transport error")

	// ErrParse covers response bodies that are not the expected JSON.
	ErrParse = errors.New("parse error")
)

// ErrorKind classifies an upstream failure.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindParse     ErrorKind = "parse"
)

// Error is an upstream API failure with request context.
type Error struct {
	Kind   ErrorKind
	Op     string // "ids" or "item"
	URL    string
	Status int // HTTP status, 0 if no response
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("hn %s %s error (status %d): %s", e.Op, e.Kind, e.Status, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("hn %s %s error: %s: %v", e.Op, e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("hn %s %s error: %s", e.Op, e.Kind, e.URL)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

// KindOf returns the ErrorKind of err, or "" if err is not an upstream error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
