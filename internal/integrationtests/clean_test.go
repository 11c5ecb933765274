package integrationtests

import (
	"testing"

	"github.com/specialistvlad/sosbs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_ForgetsTargetAndForcesRebuild(t *testing.T) {
	// --- Arrange ---
	p := testutil.NewProject(t, skift())
	require.NoError(t, p.Run("build-all").Err)

	// --- Act ---
	cleaned := p.Run("clean", "libc")
	rebuilt := p.Run("build-all")

	// --- Assert ---
	require.NoError(t, cleaned.Err)
	assert.Contains(t, cleaned.Output, "cleaned")
	assert.NoFileExists(t, p.Path("build/libc/liblibc.a"))
	assert.FileExists(t, p.Path("build/shell/shell"))

	require.NoError(t, rebuilt.Err)
	assert.Contains(t, rebuilt.Output, "no previous build")
	testutil.AssertSummary(t, rebuilt, 3, 2, 0, 0)
}

func TestClean_RebuildAllStartsFromScratch(t *testing.T) {
	p := testutil.NewProject(t, skift())
	require.NoError(t, p.Run("build-all").Err)

	r := p.Run("rebuild-all")

	require.NoError(t, r.Err)
	testutil.AssertSummary(t, r, 5, 0, 0, 0)
}

func TestInfo_ReportsBuildStatus(t *testing.T) {
	p := testutil.NewProject(t, skift())

	before := p.Run("info", "shell")
	require.NoError(t, p.Run("build", "shell").Err)
	after := p.Run("info", "shell")

	require.NoError(t, before.Err)
	assert.Contains(t, before.Output, "never built")
	assert.Contains(t, before.Output, "libc")
	require.NoError(t, after.Err)
	assert.Contains(t, after.Output, "built ")
	assert.NotContains(t, after.Output, "never built")
}
