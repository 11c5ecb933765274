package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/sosbs/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--root", t.TempDir(), "help"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, args)

	// --- Assert ---
	require.NoError(t, err, "run() should succeed for the help action")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "run() should return an *ExitError when argument parsing fails")
	require.Equal(t, cli.ExitUserError, exitErr.Code)
	require.Contains(t, exitErr.Message, "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_UnknownAction(t *testing.T) {
	t.Parallel()

	args := []string{"--root", t.TempDir(), "frobnicate"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, errOut, args)

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUserError, exitErr.Code)
	require.Contains(t, exitErr.Message, "No action named 'frobnicate'")
}
