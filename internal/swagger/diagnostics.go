package swagger

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DiagnosticKind classifies a non-fatal inconsistency found while building.
type DiagnosticKind string

const (
	UnresolvedPlaceholder DiagnosticKind = "UnresolvedPlaceholder"
	MissingErrorCode      DiagnosticKind = "MissingErrorCode"
	MalformedErrorCode    DiagnosticKind = "MalformedErrorCode"
	MissingComponent      DiagnosticKind = "MissingComponent"
	UnsupportedMethod     DiagnosticKind = "UnsupportedMethod"
	DuplicateOperation    DiagnosticKind = "DuplicateOperation"
)

// Diagnostic records an inconsistency that was skipped over. Subject names the
// offending placeholder or structure.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Diagnostics is the degrade-and-continue record of a build step.
type Diagnostics []Diagnostic

// Err aggregates the diagnostics into a single error, or nil when empty.
func (ds Diagnostics) Err() error {
	var result *multierror.Error
	for _, d := range ds {
		result = multierror.Append(result, d)
	}
	return result.ErrorOrNil()
}

// OfKind returns the diagnostics of the given kind.
func (ds Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
