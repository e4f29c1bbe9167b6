package gateways

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0750))
	createFile(t, filepath.Join(src, "a", "b", "C.java"), "class C {}")
	createFile(t, filepath.Join(src, "top.txt"), "top")
	require.NoError(t, os.Chmod(filepath.Join(src, "top.txt"), 0700))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, CopyDir(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "a", "b", "C.java"))
	require.NoError(t, err)
	assert.Equal(t, "class C {}", string(data))

	info, err := os.Stat(filepath.Join(dst, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestCopyDir_SourceMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	createFile(t, file, "x")

	assert.Error(t, CopyDir(file, t.TempDir()))
	assert.Error(t, CopyDir(filepath.Join(t.TempDir(), "missing"), t.TempDir()))
}
