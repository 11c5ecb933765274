package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/sosbs/internal/target"
)

// Run builds a target and the kernel, then hands both to the launcher.
type Run struct{}

func (Run) Name() string        { return "run" }
func (Run) Description() string { return "Start the kernel and the specified target." }
func (Run) Scope() Scope        { return Single }

func (Run) Run(ctx context.Context, env *Env, targets []string) error {
	if len(targets) != 1 {
		return fmt.Errorf("%w: run takes exactly one target, got %q", ErrUnexpectedTarget, targets)
	}
	if env.Launcher == nil {
		return errors.New("no launcher configured")
	}
	kernels := env.Registry.OfType(target.Kernel)
	if len(kernels) == 0 {
		return ErrNoKernel
	}
	kernel, id := kernels[0].ID, targets[0]

	rep, err := buildTargets(ctx, env, []string{id, kernel})
	if err != nil {
		return err
	}
	k, _ := rep.Result(kernel)
	t, _ := rep.Result(id)
	return env.Launcher.Launch(ctx, k.Output, t.Output)
}
