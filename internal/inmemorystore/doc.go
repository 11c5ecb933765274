// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the recordstore.Store interface.
//
// # Purpose
//
// Records kept here live only as long as the process. They still matter
// within a run: a target's fresh record is visible to its dependents as soon
// as the worker that built it stores it, even when nothing is written to disk.
//
// # Concurrency Model
//
// The store uses sync.Map because every key is written by exactly one worker
// per run while other workers read unrelated keys. Values are cloned on the
// way in and out so callers never share mutable maps.
package inmemorystore
