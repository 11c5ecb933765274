// Package target defines the build target model: a uniquely identified
// component (library, application, kernel or loadable module) rooted at a
// directory that owns its manifest and sources.
//
// Identity, type and declared dependencies are fixed once a Target is loaded.
// Sources are discovered lazily on first use and never persisted, so every
// process invocation sees the tree as it is on disk.
package target
