// SPDX-License-Identifier: MPL-2.0

// Package semver implements the semantic version and version range algebra
// used by the dependency resolver.
//
// A Version is an immutable MAJOR.MINOR.PATCH triple with an optional
// prerelease tag and a strict total order. A Range is an interval over
// versions written in bracket notation:
//
//	[1.0.0,2.0.0]   inclusive both ends
//	[1.0.0,2.0.0)   inclusive min, exclusive max
//	[1.0.0,)        minimum only
//	(,2.0.0]        maximum only
//	[1.2.3,1.2.3]   exact pin
//
// Ranges support containment tests and intersection. Intersection tightens
// the lower bound to the maximum of all lower bounds and the upper bound to
// the minimum of all upper bounds; when two bounds tie on value but differ
// in inclusivity the exclusive bound wins.
package semver
