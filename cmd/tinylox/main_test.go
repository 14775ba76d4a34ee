package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunCommand_ExecutesFile(t *testing.T) {
	path := writeScript(t, `print 1 + 2;`)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", path})
	require.NoError(t, root.Execute())
	assert.Equal(t, "3.0\n", out.String())
}

func TestRunCommand_IsTheDefaultSubcommand(t *testing.T) {
	path := writeScript(t, `print "hi";`)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{path})
	require.NoError(t, root.Execute())
	assert.Equal(t, "hi\n", out.String())
}

func TestRunCommand_MultipleFilesAllExecute(t *testing.T) {
	a := writeScript(t, `print 1;`)
	b := writeScript(t, `print 2;`)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", a, b})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "1.0\n")
	assert.Contains(t, out.String(), "2.0\n")
}

func TestRunCommand_MissingFileErrors(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run", filepath.Join(t.TempDir(), "nope.lox")})
	assert.Error(t, root.Execute())
}

func TestDisasmCommand_PrintsListingWithoutExecuting(t *testing.T) {
	path := writeScript(t, `print 1;`)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"disasm", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "OP_CONSTANT")
	assert.NotContains(t, out.String(), "1.0\n")
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tinylox")
}
