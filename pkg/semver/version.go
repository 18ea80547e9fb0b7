// SPDX-License-Identifier: MPL-2.0

package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type (
	// Version is a parsed semantic version. The zero value is "0.0.0".
	// Versions are immutable value types; compare them with Compare or Equal,
	// not ==, so that an empty Prerelease and a normalized one behave alike.
	Version struct {
		Major      int
		Minor      int
		Patch      int
		Prerelease string
	}

	// FormatError reports malformed version or range text. It is surfaced
	// immediately to the caller and never retried.
	FormatError struct {
		// Input is the text that failed to parse.
		Input string
		// Reason describes what was wrong with it.
		Reason string
	}
)

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version syntax %q: %s", e.Input, e.Reason)
}

// versionRegex matches MAJOR.MINOR.PATCH with an optional -PRERELEASE tag.
var versionRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z][0-9A-Za-z.\-]*))?$`)

// Parse parses a version string in the form MAJOR.MINOR.PATCH[-PRERELEASE].
// The legacy qualifier form MAJOR.MINOR.PATCH.QUALIFIER (e.g. "7.2.0.RELEASE")
// is accepted and normalized to the hyphenated form before strict parsing.
func Parse(s string) (Version, error) {
	normalized := normalizeQualifier(strings.TrimSpace(s))

	matches := versionRegex.FindStringSubmatch(normalized)
	if matches == nil {
		return Version{}, &FormatError{Input: s, Reason: "expected MAJOR.MINOR.PATCH[-PRERELEASE]"}
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return Version{}, &FormatError{Input: s, Reason: "major component is not a number"}
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return Version{}, &FormatError{Input: s, Reason: "minor component is not a number"}
	}
	patch, err := strconv.Atoi(matches[3])
	if err != nil {
		return Version{}, &FormatError{Input: s, Reason: "patch component is not a number"}
	}

	return Version{Major: major, Minor: minor, Patch: patch, Prerelease: matches[4]}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// package-level constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// normalizeQualifier rewrites the legacy four-segment qualifier form
// ("7.2.0.RELEASE") into the hyphenated prerelease form ("7.2.0-RELEASE").
// Strings already in strict form pass through untouched.
func normalizeQualifier(s string) string {
	parts := strings.SplitN(s, ".", 4)
	if len(parts) != 4 {
		return s
	}
	for _, p := range parts[:3] {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return s
		}
	}
	if parts[3] == "" || strings.Contains(parts[3], "-") {
		return s
	}
	return parts[0] + "." + parts[1] + "." + parts[2] + "-" + parts[3]
}

// String renders the version in canonical MAJOR.MINOR.PATCH[-PRERELEASE] form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Equal reports whether two versions are identical under Compare.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other.
//
// Ordering: major, minor and patch compare numerically. At an equal triple a
// version without a prerelease tag outranks one with a tag. Two tags compare
// segment-wise on their dot-separated parts: numeric segments compare
// numerically, a numeric segment sorts below a non-numeric one, non-numeric
// segments compare lexicographically, and when one tag is a prefix of the
// other the longer tag ranks higher.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	return comparePrerelease(v.Prerelease, other.Prerelease)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparePrerelease(a, b string) int {
	if a == b {
		return 0
	}
	// A release always outranks a prerelease of the same triple.
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	aSegs := strings.Split(a, ".")
	bSegs := strings.Split(b, ".")
	for i := 0; i < len(aSegs) && i < len(bSegs); i++ {
		if c := comparePrereleaseSegment(aSegs[i], bSegs[i]); c != 0 {
			return c
		}
	}

	// Shared prefix matched: the tag with more segments ranks higher.
	return compareInt(len(aSegs), len(bSegs))
}

func comparePrereleaseSegment(a, b string) int {
	aNum, aIsNum := parseNumericSegment(a)
	bNum, bIsNum := parseNumericSegment(b)

	switch {
	case aIsNum && bIsNum:
		return compareInt(aNum, bNum)
	case aIsNum:
		// Numeric segments sort below non-numeric ones.
		return -1
	case bIsNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func parseNumericSegment(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsPrerelease reports whether the version carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

// NextMajor returns the smallest release version with the next major
// component ("2.7.1" -> "3.0.0"). Used to derive compatible ranges.
func (v Version) NextMajor() Version {
	return Version{Major: v.Major + 1}
}
