package integrationtests

import (
	"errors"
	"testing"

	"github.com/specialistvlad/sosbs/internal/cli"
	"github.com/specialistvlad/sosbs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure_DependentsAreSkippedAndRecoverAfterFix(t *testing.T) {
	// --- Arrange ---
	files := skift()
	files["packages/libc/sources/stdio.c"] = "FAIL"
	p := testutil.NewProject(t, files)

	// --- Act ---
	broken := p.Run("build-all")
	p.Write("packages/libc/sources/stdio.c", "printf;")
	fixed := p.Run("build-all")

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(broken.Err, &exitErr))
	assert.Equal(t, cli.ExitBuildFailure, exitErr.Code)
	testutil.AssertTargetFailed(t, broken, "libc")
	testutil.AssertTargetSkipped(t, broken, "shell", "libc")
	testutil.AssertTargetSkipped(t, broken, "echo", "libc")
	testutil.AssertTargetBuilt(t, broken, "kernel")
	testutil.AssertTargetBuilt(t, broken, "ps2")
	testutil.AssertSummary(t, broken, 2, 0, 1, 2)
	assert.NoFileExists(t, p.Path("build/libc/liblibc.a"))

	require.NoError(t, fixed.Err)
	testutil.AssertSummary(t, fixed, 3, 2, 0, 0)
	testutil.AssertTargetUpToDate(t, fixed, "kernel")
}

func TestFailure_StopOnErrorLeavesLaterLayersUnbuilt(t *testing.T) {
	files := skift()
	files["packages/kernel/sources/main.c"] = "FAIL"
	p := testutil.NewProject(t, files)

	r := p.Run("--stop-on-error", "--workers", "1", "build-all")

	require.Error(t, r.Err)
	testutil.AssertTargetFailed(t, r, "kernel")
	assert.NoFileExists(t, p.Path("build/shell/shell"))
	assert.NoFileExists(t, p.Path("build/echo/echo"))
}

func TestFailure_CycleIsRejectedBeforeBuilding(t *testing.T) {
	files := skift()
	files["packages/libc/manifest.hcl"] = "id = \"libc\"\ntype = \"lib\"\ndependencies = [\"shell\"]\n"
	p := testutil.NewProject(t, files)

	r := p.Run("build-all")

	var exitErr *cli.ExitError
	require.True(t, errors.As(r.Err, &exitErr))
	assert.Equal(t, cli.ExitConfigError, exitErr.Code)
	assert.Contains(t, exitErr.Message, "cycl")
	assert.NoDirExists(t, p.Path("build"))
}
