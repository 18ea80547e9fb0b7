// SPDX-License-Identifier: MPL-2.0

package semver

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "closed interval", input: "[1.0.0,2.0.0]", want: "[1.0.0,2.0.0]"},
		{name: "half-open interval", input: "[1.0.0,2.0.0)", want: "[1.0.0,2.0.0)"},
		{name: "minimum only", input: "[1.5.0,)", want: "[1.5.0,)"},
		{name: "maximum only", input: "(,2.0.0]", want: "(,2.0.0]"},
		{name: "exact pin", input: "[1.2.3,1.2.3]", want: "[1.2.3,1.2.3]"},
		{name: "fully unbounded", input: "(,)", want: "(,)"},
		{name: "inner whitespace", input: "[ 1.0.0 , 2.0.0 )", want: "[1.0.0,2.0.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.input)
			if err != nil {
				t.Fatalf("ParseRange(%q) failed: %v", tt.input, err)
			}
			if got := r.String(); got != tt.want {
				t.Errorf("ParseRange(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRangeRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"1.0.0",
		"[1.0.0]",
		"[1.0.0,2.0.0",
		"1.0.0,2.0.0)",
		"{1.0.0,2.0.0}",
		"[1.0.0,2.0.0,3.0.0]",
		"[2.0.0,1.0.0]",
		"[1.0.0,1.0.0)",
		"[bogus,2.0.0]",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseRange(input)
			if err == nil {
				t.Fatalf("ParseRange(%q) succeeded, want error", input)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("ParseRange(%q) returned %T, want *FormatError", input, err)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		rng      string
		version  string
		expected bool
	}{
		{rng: "[1.0.0,2.0.0)", version: "1.0.0", expected: true},
		{rng: "[1.0.0,2.0.0)", version: "1.9.9", expected: true},
		{rng: "[1.0.0,2.0.0)", version: "2.0.0", expected: false},
		{rng: "[1.0.0,2.0.0)", version: "0.9.9", expected: false},
		{rng: "(1.0.0,2.0.0]", version: "1.0.0", expected: false},
		{rng: "(1.0.0,2.0.0]", version: "2.0.0", expected: true},
		{rng: "[1.5.0,)", version: "99.0.0", expected: true},
		{rng: "[1.5.0,)", version: "1.4.9", expected: false},
		{rng: "(,2.0.0]", version: "0.0.1", expected: true},
		{rng: "(,)", version: "5.4.3", expected: true},
		{rng: "[1.2.3,1.2.3]", version: "1.2.3", expected: true},
		{rng: "[1.2.3,1.2.3]", version: "1.2.4", expected: false},
		// Prereleases sit below their release within the bound comparison.
		{rng: "[1.0.0,2.0.0)", version: "2.0.0-alpha", expected: true},
		{rng: "[1.0.0,2.0.0]", version: "2.0.0-alpha", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.rng+" "+tt.version, func(t *testing.T) {
			r := MustParseRange(tt.rng)
			if got := r.Contains(MustParse(tt.version)); got != tt.expected {
				t.Errorf("%s.Contains(%s) = %v, want %v", tt.rng, tt.version, got, tt.expected)
			}
		})
	}
}

func TestRangeClassification(t *testing.T) {
	if !MustParseRange("[1.2.3,1.2.3]").IsExact() {
		t.Error("[1.2.3,1.2.3] should be exact")
	}
	if MustParseRange("[1.2.3,1.2.4]").IsExact() {
		t.Error("[1.2.3,1.2.4] should not be exact")
	}
	if !MustParseRange("(,)").IsUnbounded() {
		t.Error("(,) should be unbounded")
	}
	if MustParseRange("[1.0.0,)").IsUnbounded() {
		t.Error("[1.0.0,) should not be unbounded")
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name   string
		ranges []string
		want   string
		empty  bool
	}{
		{
			name:   "overlapping intervals tighten",
			ranges: []string{"[1.0.0,2.0.0)", "[1.5.0,3.0.0)"},
			want:   "[1.5.0,2.0.0)",
		},
		{
			name:   "disjoint intervals have no solution",
			ranges: []string{"[1.0.0,2.0.0)", "[3.0.0,4.0.0)"},
			empty:  true,
		},
		{
			name:   "exclusive bound wins a tie",
			ranges: []string{"[1.0.0,2.0.0]", "[1.0.0,2.0.0)"},
			want:   "[1.0.0,2.0.0)",
		},
		{
			name:   "exclusive lower tie",
			ranges: []string{"(1.0.0,3.0.0]", "[1.0.0,2.0.0]"},
			want:   "(1.0.0,2.0.0]",
		},
		{
			name:   "touching bounds with one side exclusive",
			ranges: []string{"[1.0.0,2.0.0)", "[2.0.0,3.0.0)"},
			empty:  true,
		},
		{
			name:   "touching bounds both inclusive pin exactly",
			ranges: []string{"[1.0.0,2.0.0]", "[2.0.0,3.0.0]"},
			want:   "[2.0.0,2.0.0]",
		},
		{
			name:   "exact pin inside interval",
			ranges: []string{"[1.2.3,1.2.3]", "[1.0.0,2.0.0)"},
			want:   "[1.2.3,1.2.3]",
		},
		{
			name:   "exact pin mismatch",
			ranges: []string{"[1.2.3,1.2.3]", "[1.3.0,1.3.0]"},
			empty:  true,
		},
		{
			name:   "unbounded is the identity",
			ranges: []string{"(,)", "[1.0.0,2.0.0)"},
			want:   "[1.0.0,2.0.0)",
		},
		{
			name:   "no inputs yield unbounded",
			ranges: nil,
			want:   "(,)",
		},
		{
			name:   "three-way intersection",
			ranges: []string{"[1.0.0,)", "(,3.0.0)", "[2.0.0,4.0.0]"},
			want:   "[2.0.0,3.0.0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := make([]Range, len(tt.ranges))
			for i, s := range tt.ranges {
				ranges[i] = MustParseRange(s)
			}
			got, ok := Intersect(ranges...)
			if tt.empty {
				if ok {
					t.Fatalf("Intersect(%v) = %s, want no solution", tt.ranges, got)
				}
				return
			}
			if !ok {
				t.Fatalf("Intersect(%v) had no solution, want %s", tt.ranges, tt.want)
			}
			if got.String() != tt.want {
				t.Errorf("Intersect(%v) = %s, want %s", tt.ranges, got, tt.want)
			}
		})
	}
}

func TestIntersectCommutativeAssociative(t *testing.T) {
	a := MustParseRange("[1.0.0,3.0.0)")
	b := MustParseRange("(1.5.0,4.0.0]")
	c := MustParseRange("[2.0.0,2.9.0]")

	orders := [][]Range{
		{a, b, c},
		{c, b, a},
		{b, a, c},
		{c, a, b},
	}

	first, ok := Intersect(orders[0]...)
	if !ok {
		t.Fatal("expected a non-empty intersection")
	}
	for _, order := range orders[1:] {
		got, ok := Intersect(order...)
		if !ok || got.String() != first.String() {
			t.Errorf("Intersect order sensitivity: got %s (ok=%v), want %s", got, ok, first)
		}
	}

	// Associativity: (a ∩ b) ∩ c == a ∩ (b ∩ c).
	ab, _ := Intersect(a, b)
	left, _ := Intersect(ab, c)
	bc, _ := Intersect(b, c)
	right, _ := Intersect(a, bc)
	if left.String() != right.String() {
		t.Errorf("associativity violated: %s != %s", left, right)
	}
}

func TestHighestIn(t *testing.T) {
	candidates := []Version{
		MustParse("1.0.0"),
		MustParse("1.4.2"),
		MustParse("1.9.9"),
		MustParse("2.0.0-rc.1"),
		MustParse("2.0.0"),
	}

	r := MustParseRange("[1.0.0,2.0.0)")
	best, ok := r.HighestIn(candidates)
	if !ok || best.String() != "2.0.0-rc.1" {
		t.Errorf("HighestIn = %s (ok=%v), want 2.0.0-rc.1", best, ok)
	}

	r = MustParseRange("[3.0.0,)")
	if _, ok := r.HighestIn(candidates); ok {
		t.Error("HighestIn should find nothing above 3.0.0")
	}
}
