// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Library manifests and the application config both follow the same
// schema-first parsing flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema's root definition
//  3. Validate and decode into a Go struct
//
// ParseAndDecode implements that flow generically:
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    schemaBytes,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("libman.cue"),
//	)
package cueutil
