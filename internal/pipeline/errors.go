package pipeline

import (
	"errors"
	"fmt"
)

// Failure codes surfaced to callers. The orchestrator returns a stage's code
// verbatim; it never rewrites or retries.
const (
	CodeInvalidHomeURL    = "invalid-home-url"
	CodeInvalidSiteURL    = "invalid-site-url"
	CodeMissingSiteURL    = "missing-siteurl"
	CodeMissingHome       = "missing-home"
	CodeSaveJetpackOption = "error-save-jetpack-option"
	CodeJetpackMissing    = "jetpack-not-installed"
	CodeNotConnected      = "site-not-connected"
	CodeUpdatePosts       = "error-update-posts"
	CodeUpdateLinks       = "error-update-links"
	CodeUpdatePlugins     = "error-update-active-plugins"
	CodeInvalidPrefix     = "invalid-prefix"
	CodeMissingTables     = "missing-tables"
)

// Error is a tagged failure: a short machine-readable code plus a
// human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Errf builds a tagged failure with a formatted message.
func Errf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the failure code of err, or "" when err carries none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
