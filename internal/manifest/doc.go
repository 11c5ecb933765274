// Package manifest reads target descriptors.
//
// A descriptor lives in the target's directory as manifest.hcl, manifest.json
// or manifest.yaml (checked in that order) and declares:
//
//	id           = "libc"             // required, unique across the project
//	type         = "lib"              // required: lib | app | kernel | module
//	dependencies = ["libsystem"]      // optional
//	sources      = ["sources"]        // optional source roots, relative to the directory
//
// HCL and JSON descriptors are decoded through hashicorp/hcl and may reference
// env.<NAME> and target.dir in expressions. The loader knows nothing about
// other targets; resolving identifiers is the resolver's job.
package manifest
