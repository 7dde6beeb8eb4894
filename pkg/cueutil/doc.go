// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against embedded schemas.
//
// Manifests, CUE term dictionaries and the configuration file all follow the
// same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[manifestFile](
//	    schemaBytes,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("ontologies.cue"),
//	)
//	if err != nil {
//	    return nil, err // *cueutil.Error carries one Issue per invalid field
//	}
//
// Validation failures are reported as *Error with JSON-path style field
// locations (e.g. "vocabularies[2].loader").
package cueutil
