// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It builds
// the cobra command tree from the action registry and translates flags into
// the application's configuration.
package cli
