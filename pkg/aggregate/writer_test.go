package aggregate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesParentDirectories(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	require.NoError(t, Write("document", dest, nil))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "document", string(content))
}

func TestWriteOverwritesWithoutPrompting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	require.NoError(t, Write("new", dest, nil))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestWriteFailsWhenDestinationIsDirectory(t *testing.T) {
	dest := t.TempDir()

	err := Write("document", dest, nil)
	assert.Error(t, err)
}

func TestWriteLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")

	require.NoError(t, Write("document", dest, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}
