package hledger

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hledger")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecRunner_Success(t *testing.T) {
	requireSh(t)
	path := writeScript(t, `echo "$@"`)

	out, err := ExecRunner{Path: path}.Run(context.Background(), []string{"-f", "main.journal", "balance"})
	require.NoError(t, err)
	assert.Equal(t, "-f main.journal balance\n", string(out))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requireSh(t)
	path := writeScript(t, "echo 'hledger: journal not found' >&2\nexit 3\n")

	_, err := ExecRunner{Path: path}.Run(context.Background(), []string{"balance"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvocation)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 3, execErr.ExitCode)
	assert.Equal(t, "hledger: journal not found", execErr.Stderr)
	assert.Equal(t, []string{"balance"}, execErr.Args)
	assert.Contains(t, err.Error(), "status 3")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-hledger")

	_, err := ExecRunner{Path: path}.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvocation)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, -1, execErr.ExitCode)
}

func TestExecRunner_Cancelled(t *testing.T) {
	requireSh(t)
	path := writeScript(t, "sleep 5\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExecRunner{Path: path}.Run(ctx, nil)
	assert.ErrorIs(t, err, ErrInvocation)
}
