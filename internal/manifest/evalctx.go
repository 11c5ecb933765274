package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// EvalContext returns the variables available to HCL expressions evaluated
// for a descriptor or config file located in dir.
func EvalContext(dir string) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
			"target": cty.ObjectVal(map[string]cty.Value{
				"dir":  cty.StringVal(dir),
				"name": cty.StringVal(filepath.Base(dir)),
			}),
		},
	}
}
