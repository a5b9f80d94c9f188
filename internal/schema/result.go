// Package schema holds the shared pieces of DAWSheet's structural validation:
// the validation result value and the string patterns that gate wire fields.
// The per-family checks live with their types (song.ValidateSong,
// command.ValidateEnvelope); both report through Result and never panic or
// return an error, so callers decide what a failure means.
package schema

import (
	"fmt"
	"regexp"
	"time"
)

// Result reports the outcome of a structural validation pass.
type Result struct {
	Valid  bool
	Errors []string
}

// OK returns a passing result.
func OK() Result {
	return Result{Valid: true}
}

// Fail returns a failing result carrying the given messages.
func Fail(errors ...string) Result {
	return Result{Valid: false, Errors: errors}
}

// Addf appends a formatted error and marks the result invalid.
func (r *Result) Addf(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Merge folds another result into r.
func (r *Result) Merge(other Result) {
	if !other.Valid {
		r.Valid = false
		r.Errors = append(r.Errors, other.Errors...)
	}
}

var (
	positionPattern      = regexp.MustCompile(`^\d+:\d+(:\d+)?$`)
	timeSignaturePattern = regexp.MustCompile(`^\d+/\d+$`)
)

// ValidPosition reports whether s is a "bar:beat[:ticks]" position string.
func ValidPosition(s string) bool {
	return positionPattern.MatchString(s)
}

// ValidTimeSignature reports whether s is an "N/D" time signature string.
func ValidTimeSignature(s string) bool {
	return timeSignaturePattern.MatchString(s)
}

// ValidAt reports whether s is an acceptable envelope schedule: the literal
// "now", a bar:beat[:ticks] position, or an ISO-8601 timestamp.
func ValidAt(s string) bool {
	if s == "now" {
		return true
	}
	if ValidPosition(s) {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
