// SPDX-License-Identifier: MPL-2.0

package semver

import (
	"strings"
)

// Range is an interval constraint over versions. A nil bound means the range
// is unbounded on that side. Ranges are immutable once constructed.
type Range struct {
	// Lower is the lower bound, or nil when unbounded below.
	Lower *Version
	// LowerInclusive reports whether Lower itself satisfies the range.
	LowerInclusive bool
	// Upper is the upper bound, or nil when unbounded above.
	Upper *Version
	// UpperInclusive reports whether Upper itself satisfies the range.
	UpperInclusive bool
}

// Exact returns the range that matches only v ("[v,v]").
func Exact(v Version) Range {
	lower, upper := v, v
	return Range{Lower: &lower, LowerInclusive: true, Upper: &upper, UpperInclusive: true}
}

// AtLeast returns the range "[v,)".
func AtLeast(v Version) Range {
	lower := v
	return Range{Lower: &lower, LowerInclusive: true}
}

// Between returns the half-open range "[lower,upper)", the conventional
// "compatible with" shape.
func Between(lower, upper Version) Range {
	lo, hi := lower, upper
	return Range{Lower: &lo, LowerInclusive: true, Upper: &hi}
}

// Unbounded returns the range that matches every version ("(,)").
func Unbounded() Range {
	return Range{}
}

// ParseRange parses bracket interval notation: "[min,max]", "[min,max)",
// "[min,)", "(,max]" and so on. Either bound may be empty, meaning unbounded
// on that side. Malformed syntax yields a FormatError.
func ParseRange(s string) (Range, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 3 {
		return Range{}, &FormatError{Input: s, Reason: "range too short"}
	}

	var r Range
	switch trimmed[0] {
	case '[':
		r.LowerInclusive = true
	case '(':
	default:
		return Range{}, &FormatError{Input: s, Reason: "range must start with '[' or '('"}
	}
	switch trimmed[len(trimmed)-1] {
	case ']':
		r.UpperInclusive = true
	case ')':
	default:
		return Range{}, &FormatError{Input: s, Reason: "range must end with ']' or ')'"}
	}

	body := trimmed[1 : len(trimmed)-1]
	lowerText, upperText, found := strings.Cut(body, ",")
	if !found {
		return Range{}, &FormatError{Input: s, Reason: "range must contain two comma-separated bounds"}
	}
	if strings.Contains(upperText, ",") {
		return Range{}, &FormatError{Input: s, Reason: "range must contain exactly one comma"}
	}

	if lowerText = strings.TrimSpace(lowerText); lowerText != "" {
		v, err := Parse(lowerText)
		if err != nil {
			return Range{}, &FormatError{Input: s, Reason: "bad lower bound: " + lowerText}
		}
		r.Lower = &v
	} else {
		// An unbounded side carries no inclusivity.
		r.LowerInclusive = false
	}

	if upperText = strings.TrimSpace(upperText); upperText != "" {
		v, err := Parse(upperText)
		if err != nil {
			return Range{}, &FormatError{Input: s, Reason: "bad upper bound: " + upperText}
		}
		r.Upper = &v
	} else {
		r.UpperInclusive = false
	}

	if r.Lower != nil && r.Upper != nil {
		if c := r.Lower.Compare(*r.Upper); c > 0 || (c == 0 && !(r.LowerInclusive && r.UpperInclusive)) {
			return Range{}, &FormatError{Input: s, Reason: "lower bound exceeds upper bound"}
		}
	}

	return r, nil
}

// MustParseRange is like ParseRange but panics on malformed input.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String renders the range in bracket interval notation.
func (r Range) String() string {
	var sb strings.Builder
	if r.LowerInclusive {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	if r.Lower != nil {
		sb.WriteString(r.Lower.String())
	}
	sb.WriteByte(',')
	if r.Upper != nil {
		sb.WriteString(r.Upper.String())
	}
	if r.UpperInclusive {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

// Contains reports whether v satisfies the range.
func (r Range) Contains(v Version) bool {
	if r.Lower != nil {
		c := v.Compare(*r.Lower)
		if c < 0 || (c == 0 && !r.LowerInclusive) {
			return false
		}
	}
	if r.Upper != nil {
		c := v.Compare(*r.Upper)
		if c > 0 || (c == 0 && !r.UpperInclusive) {
			return false
		}
	}
	return true
}

// IsExact reports whether the range pins a single version.
func (r Range) IsExact() bool {
	return r.Lower != nil && r.Upper != nil &&
		r.LowerInclusive && r.UpperInclusive &&
		r.Lower.Equal(*r.Upper)
}

// IsUnbounded reports whether the range matches every version.
func (r Range) IsUnbounded() bool {
	return r.Lower == nil && r.Upper == nil
}

// Intersect computes the tightest range satisfying all inputs. The second
// return value is false when the intersection is empty. Intersecting no
// ranges yields the unbounded range.
//
// The lower bound tightens to the maximum of all lower bounds and the upper
// bound to the minimum of all upper bounds. When two bounds tie on value but
// differ in inclusivity, the exclusive bound is kept. The result is empty
// when the tightened lower strictly exceeds the tightened upper, or equals
// it while either side is exclusive.
func Intersect(ranges ...Range) (Range, bool) {
	result := Unbounded()

	for _, r := range ranges {
		if r.Lower != nil {
			if result.Lower == nil {
				result.Lower, result.LowerInclusive = r.Lower, r.LowerInclusive
			} else {
				switch c := r.Lower.Compare(*result.Lower); {
				case c > 0:
					result.Lower, result.LowerInclusive = r.Lower, r.LowerInclusive
				case c == 0 && !r.LowerInclusive:
					result.LowerInclusive = false
				}
			}
		}
		if r.Upper != nil {
			if result.Upper == nil {
				result.Upper, result.UpperInclusive = r.Upper, r.UpperInclusive
			} else {
				switch c := r.Upper.Compare(*result.Upper); {
				case c < 0:
					result.Upper, result.UpperInclusive = r.Upper, r.UpperInclusive
				case c == 0 && !r.UpperInclusive:
					result.UpperInclusive = false
				}
			}
		}
	}

	if result.Lower != nil && result.Upper != nil {
		c := result.Lower.Compare(*result.Upper)
		if c > 0 {
			return Range{}, false
		}
		if c == 0 && !(result.LowerInclusive && result.UpperInclusive) {
			return Range{}, false
		}
	}

	return result, true
}

// HighestIn returns the highest version from candidates that the range
// contains, and false when none satisfies it. Equal versions are
// interchangeable, so ties may return either candidate.
func (r Range) HighestIn(candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, v := range candidates {
		if !r.Contains(v) {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best = v
			found = true
		}
	}
	return best, found
}
