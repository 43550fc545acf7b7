package vgnav

import (
	"errors"
	"fmt"
)

// Declaration errors. They indicate a mistake in how routes were declared and are
// returned synchronously; retrying will not help.
var (
	ErrMissingPath           = errors.New("route must have a path, be a default route or be a redirect")
	ErrAmbiguousDeclaration  = errors.New("route must not have both a path and the default flag")
	ErrRedirectMissingTarget = errors.New("redirect requires both from and to")
	ErrRedirectParamMismatch = errors.New("redirect from and to have mismatched dynamic segments")
	ErrReservedName          = errors.New("dynamic segment uses a reserved name")
	ErrSplatNotLast          = errors.New("splat segment must be the last segment")
)

// declaration error codes, one per sentinel above
var errorCodes = map[error]string{
	ErrMissingPath:           "R001",
	ErrAmbiguousDeclaration:  "R002",
	ErrRedirectMissingTarget: "R003",
	ErrRedirectParamMismatch: "R004",
	ErrReservedName:          "R005",
	ErrSplatNotLast:          "R006",
}

// DeclarationError describes an invalid route declaration.
type DeclarationError struct {
	// Code is a stable identifier for the kind of mistake (e.g. "R005").
	Code string

	// Path is the offending pattern as declared (may be empty for ErrMissingPath).
	Path string

	// Detail names the offending part, e.g. the reserved segment name.
	Detail string

	// Err is one of the Err* sentinels of this package.
	Err error
}

func newDeclarationError(err error, path, detail string) *DeclarationError {
	return &DeclarationError{
		Code:   errorCodes[err],
		Path:   path,
		Detail: detail,
		Err:    err,
	}
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" in path %q", e.Path)
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the sentinel error so errors.Is works.
func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// RedirectRequest is returned by route resolution when the matched route is a redirect.
// It is a control transfer rather than a failure: hosts catch it with IsRedirect and
// navigate to URI, typically replacing the current entry.
type RedirectRequest struct {
	URI string
}

// Error implements the error interface.
func (r *RedirectRequest) Error() string {
	return "redirect to " + r.URI
}

// IsRedirect reports whether err is (or wraps) a *RedirectRequest and returns it.
func IsRedirect(err error) (*RedirectRequest, bool) {
	var rr *RedirectRequest
	if errors.As(err, &rr) {
		return rr, true
	}
	return nil, false
}
