// Package action routes a named action and an optional target selection onto
// the registry, the resolver plan and the orchestrator.
//
// Each action is a value implementing Action. The Dispatcher holds a map of
// them built once at startup; routing by name happens only there.
//
// Single-target actions (build, clean, rebuild, run, info, watch) take one or
// more target IDs. Global actions (build-all, clean-all, rebuild-all,
// info-all, help, list, list-app, list-lib, list-other) take none and work on
// the whole registry in dependency order.
package action
