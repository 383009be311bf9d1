package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrCatalogFetch = errors.New("catalog fetch failed")
	ErrCatalogParse = errors.New("catalog parse failed")
	ErrEmptyCatalog = errors.New("catalog has no valid cards")
)

// Error wraps a catalog failure with its kind and the source it came from.
// errors.Is matches both the kind sentinel and the underlying cause.
type Error struct {
	Kind   error
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Source != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Source)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fetchError(source string, err error) error {
	return &Error{Kind: ErrCatalogFetch, Source: source, Err: err}
}

func parseErrorf(source, format string, args ...any) error {
	return &Error{Kind: ErrCatalogParse, Source: source, Err: fmt.Errorf(format, args...)}
}

// EmptyError reports a catalog that yielded zero valid cards.
func EmptyError(source string) error {
	return &Error{Kind: ErrEmptyCatalog, Source: source}
}
