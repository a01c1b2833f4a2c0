package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudcmds/framevm/object"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const addSrc = `
.code <module>
	LOAD_NAME a
	LOAD_CONST 1
	BINARY_ADD
	STORE_NAME n
	LOAD_NAME divmod
	LOAD_NAME a
	LOAD_CONST 2
	CALL_FUNCTION 2
	STORE_NAME d
	LOAD_CONST None
	RETURN_VALUE
.end
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	// Flag values persist between executions of the same command tree.
	runCmd.Flags().Lookup("global").Value.(pflag.SliceValue).Replace(nil)
	require.Nil(t, runCmd.Flags().Set("trace-stack", "false"))
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeFile(t, "add.fasm", addSrc)
	out, err := execute(t, "run", path, "--global", "a=2", "--get", "n", "-o", "text")
	require.Nil(t, err)
	require.Equal(t, "3\n", out)

	out, err = execute(t, "run", path, "--global", "a=11", "--get", "d", "-o", "json")
	require.Nil(t, err)
	require.JSONEq(t, "[5, 1]", out)
}

func TestRunCommandTraceStack(t *testing.T) {
	path := writeFile(t, "add.fasm", addSrc)
	out, err := execute(t, "run", path, "--global", "a=2", "--trace-stack", "--get", "n", "-o", "text")
	require.Nil(t, err)
	require.Contains(t, out, "step")
	require.Contains(t, out, "BINARY_ADD")
	require.Contains(t, out, "3\n")
}

func TestRunCommandError(t *testing.T) {
	path := writeFile(t, "add.fasm", addSrc)
	_, err := execute(t, "run", path, "--global", "b=2", "--get", "n")
	require.Error(t, err)
	require.Contains(t, err.Error(), `name "a" is not defined`)
}

func TestAsmAndDisCommands(t *testing.T) {
	src := writeFile(t, "add.fasm", addSrc)
	out := filepath.Join(filepath.Dir(src), "add.fvm")

	msg, err := execute(t, "asm", src)
	require.Nil(t, err)
	require.Contains(t, msg, "add.fvm")
	_, err = os.Stat(out)
	require.Nil(t, err)

	listing, err := execute(t, "dis", out)
	require.Nil(t, err)
	require.Contains(t, listing, "Disassembly of <code object <module>>:")
	require.Contains(t, listing, "BINARY_ADD")

	result, err := execute(t, "run", out, "--global", "a=4", "--get", "n", "-o", "text")
	require.Nil(t, err)
	require.Equal(t, "5\n", result)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "-o", "json")
	require.Nil(t, err)
	require.JSONEq(t, `{"version": "dev", "commit": "unknown", "date": "unknown"}`, out)
}

func TestParseGlobal(t *testing.T) {
	tests := []struct {
		input string
		name  string
		value any
	}{
		{"a=2", "a", int64(2)},
		{"x=2.5", "x", 2.5},
		{"ok=true", "ok", true},
		{"s=hello", "s", "hello"},
		{"e=", "e", ""},
		{"n=None", "n", nil},
	}
	for _, tt := range tests {
		name, value, err := parseGlobal(tt.input)
		require.Nil(t, err)
		require.Equal(t, tt.name, name)
		require.Equal(t, tt.value, value)
	}
	_, _, err := parseGlobal("novalue")
	require.Error(t, err)
	_, _, err = parseGlobal("=1")
	require.Error(t, err)
}

func TestCollectGlobals(t *testing.T) {
	path := writeFile(t, "vars.toml", `
a = 1
name = "demo"
items = [1, 2]
`)
	globals, err := collectGlobals(path, []string{"a=5"})
	require.Nil(t, err)
	require.Equal(t, int64(5), globals["a"])
	require.Equal(t, "demo", globals["name"])
	require.Equal(t, []any{int64(1), int64(2)}, globals["items"])

	bad := writeFile(t, "bad.toml", "a = ")
	_, err = collectGlobals(bad, nil)
	require.Error(t, err)
}

func TestGetOutput(t *testing.T) {
	color.NoColor = true
	out, err := getOutput(object.None, "")
	require.Nil(t, err)
	require.Equal(t, "", out)

	out, err = getOutput(object.NewString("hi"), "text")
	require.Nil(t, err)
	require.Equal(t, "hi", out)

	out, err = getOutput(object.NewInt(3), "json")
	require.Nil(t, err)
	require.Equal(t, "3", out)

	_, err = getOutput(object.NewInt(3), "yaml")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug")
	require.Nil(t, err)
	logger.Debug().Msg("hello")
	logger.Trace().Msg("hidden")
	require.Contains(t, buf.String(), "hello")
	require.NotContains(t, buf.String(), "hidden")

	_, err = newLogger(&buf, "loud")
	require.Error(t, err)
}
