// SPDX-License-Identifier: MPL-2.0

// Package library defines the core data model of the dependency manager:
// Library (a resolved, named artifact), Dependency (a requester's declared
// need), and the libman.cue manifest through which artifacts declare both.
//
// Library names are case-insensitive; every constructor canonicalizes them
// to lower case so that "Guice" and "guice" are the same identity
// everywhere downstream.
package library
