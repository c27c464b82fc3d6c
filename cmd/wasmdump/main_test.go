package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/wasmenc/binary"
	"github.com/gowasm/wasmenc/wasm"
)

func writeTestModule(t *testing.T) string {
	t.Helper()
	data, err := binary.EncodeModule(&wasm.Module{})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "empty.wasm")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDoMainDump(t *testing.T) {
	path := writeTestModule(t)
	var stdout, stderr bytes.Buffer
	err := doMain([]string{"dump", path}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "module version")
}

func TestDoMainRoundtrip(t *testing.T) {
	path := writeTestModule(t)
	var stdout, stderr bytes.Buffer
	err := doMain([]string{"roundtrip", path}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "round-trip: identical")
}

func TestDoMainVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := doMain([]string{"version"}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "version 1")
}

func TestDoMainMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := doMain([]string{"dump", "/nonexistent/path.wasm"}, &stdout, &stderr)
	require.Error(t, err)
}
