// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "manifest_parse_skipped").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// RegistryResult bundles a seeded registry view with the diagnostics
	// produced while scanning. Diagnostics include parse failures, duplicate
	// registrations, and unreadable search paths.
	RegistryResult struct {
		// Manifests lists every manifest the scan considered, including the
		// ones that failed to parse or register.
		Manifests []*DiscoveredManifest
		// Diagnostics collects the non-fatal issues hit along the way.
		Diagnostics []Diagnostic
	}
)

// Errors reports how many error-severity diagnostics the result carries.
func (r *RegistryResult) Errors() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
