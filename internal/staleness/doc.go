// Package staleness decides whether a target must be rebuilt or whether its
// previous outputs can be reused.
//
// # Markers
//
// A marker is the SHA-256 of a source file's content. Content hashing keeps
// verdicts correct under clock skew and for files restored with old
// modification times.
//
// # Verdicts
//
// A target is rebuilt when any of the following hold:
//   - there is no record of a previous build;
//   - the previous build never completed (it failed or was interrupted);
//   - the set of source files changed, or any marker differs;
//   - a source cannot be read (reported as a warning, never an abort);
//   - a dependency was rebuilt during the current run;
//   - a dependency's stamp differs from the one recorded at build time;
//   - the recorded output no longer exists.
//
// Otherwise the target is reused and the orchestrator must not invoke the
// toolchain for it.
//
// # Stamps
//
// Each complete record carries a stamp digesting its markers and the stamps of
// its direct dependencies. Dependents store the stamps they were built against,
// which makes freshness propagation hold across separate invocations too, not
// only within a single run.
//
// Records are written per target as soon as that target finishes, so
// dependents later in the same run always see an accurate signal.
package staleness
