// Package dag provides a small directed graph keyed by string identifiers.
//
// An edge from -> to records that "to" depends on "from". The package knows
// nothing about targets: it offers cycle detection that reports the whole
// cycle, longest-path layering for parallel scheduling, and dependency
// closures. Self-edges are accepted so that a node depending on itself is
// reported through the same cycle path as any longer loop.
package dag
