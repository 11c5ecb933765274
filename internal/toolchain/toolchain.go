// Package toolchain defines the compiler/linker collaborator used by the
// orchestrator and a command-template implementation of it.
package toolchain

import (
	"context"

	"github.com/specialistvlad/sosbs/internal/target"
)

// Toolchain turns sources into artifacts and artifacts into a target output.
//
// Both calls are synchronous and may be slow. Implementations MUST be safe for
// concurrent use: the orchestrator calls them from several workers at once,
// though never for the same target concurrently.
type Toolchain interface {
	// Compile builds one source of t and returns the produced artifact path.
	Compile(ctx context.Context, source string, t *target.Target) (string, error)
	// Link combines the artifacts of t into its output and returns the output path.
	Link(ctx context.Context, t *target.Target, artifacts []string) (string, error)
}
