package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
)

// targetLine returns the console line reporting on id whose status starts
// with status, or "" when there is none.
func targetLine(output, id, status string) string {
	for _, line := range strings.Split(color.ClearCode(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == id && strings.HasPrefix(fields[1], status) {
			return line
		}
	}
	return ""
}

// AssertTargetBuilt checks that id was built by the run.
func AssertTargetBuilt(t *testing.T, r *HarnessResult, id string) {
	t.Helper()
	assert.NotEmpty(t, targetLine(r.Output, id, "built"), "expected %s to be built\n%s", id, r.Output)
}

// AssertTargetUpToDate checks that id was reused by the run.
func AssertTargetUpToDate(t *testing.T, r *HarnessResult, id string) {
	t.Helper()
	assert.NotEmpty(t, targetLine(r.Output, id, "up"), "expected %s to be up to date\n%s", id, r.Output)
}

// AssertTargetFailed checks that id failed during the run.
func AssertTargetFailed(t *testing.T, r *HarnessResult, id string) {
	t.Helper()
	assert.NotEmpty(t, targetLine(r.Output, id, "failed"), "expected %s to fail\n%s", id, r.Output)
}

// AssertTargetSkipped checks that id was skipped because blocker failed.
func AssertTargetSkipped(t *testing.T, r *HarnessResult, id, blocker string) {
	t.Helper()
	line := targetLine(r.Output, id, "skipped")
	assert.Contains(t, line, "blocked by "+blocker, "expected %s to be blocked by %s\n%s", id, blocker, r.Output)
}

// AssertSummary checks the final counts printed by the run.
func AssertSummary(t *testing.T, r *HarnessResult, built, reused, failed, skipped int) {
	t.Helper()
	want := fmt.Sprintf("%d built, %d up to date, %d failed, %d skipped", built, reused, failed, skipped)
	assert.Contains(t, color.ClearCode(r.Output), want)
}
