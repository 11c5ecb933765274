// Package registry holds the set of discovered targets keyed by identifier.
//
// The Registry is populated once by a single writer during discovery and is
// read-only afterwards, which makes it safe for concurrent reads during a
// build. Duplicate identifiers abort discovery: an ambiguous project is never
// resolved by letting the last manifest win.
package registry
