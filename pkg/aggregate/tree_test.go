package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pagr/pkg/ignore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject builds a project directory from a map of relative path to file
// content. Keys ending in "/" create empty directories.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(ignore.GlobalIgnoreEnv, filepath.Join(root, "no-such-global-ignore"))

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func resolveIgnore(t *testing.T, root string) *ignore.Context {
	t.Helper()
	ic, err := ignore.Resolve(root, ignore.Options{})
	require.NoError(t, err)
	return ic
}

func childNames(n *Node) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestWalkSortOrderDirsFirstThenName(t *testing.T) {
	root := newProject(t, map[string]string{
		"b.txt": "b",
		"A/":    "",
		"a.txt": "a",
	})

	tree, err := Walk(context.Background(), root, resolveIgnore(t, root), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "a.txt", "b.txt"}, childNames(tree))
	assert.Equal(t, KindDir, tree.Children[0].Kind)
}

func TestWalkPrunesIgnoredDirectories(t *testing.T) {
	root := newProject(t, map[string]string{
		".pagrignore":    "build/\n!build/keep.txt\n",
		"build/keep.txt": "kept?",
		"build/junk.o":   "junk",
		"src/main.go":    "package main",
	})

	tree, err := Walk(context.Background(), root, resolveIgnore(t, root), nil)
	require.NoError(t, err)

	// Directory exclusion is terminal: the negation cannot resurrect a file
	// beneath an excluded directory because the walker never descends.
	for _, f := range tree.Files() {
		assert.NotEqual(t, "build/keep.txt", f.RelPath)
	}
	assert.Equal(t, []string{"src", ".pagrignore"}, childNames(tree))
}

func TestWalkRelativePaths(t *testing.T) {
	root := newProject(t, map[string]string{
		"src/sub/deep.txt": "x",
	})

	tree, err := Walk(context.Background(), root, resolveIgnore(t, root), nil)
	require.NoError(t, err)

	files := tree.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "src/sub/deep.txt", files[0].RelPath)
	assert.Equal(t, filepath.Join(root, "src", "sub", "deep.txt"), files[0].Path)
}

func TestWalkSymlinksAreLeavesAndNotFollowed(t *testing.T) {
	root := newProject(t, map[string]string{
		"real/file.txt": "content",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	tree, err := Walk(context.Background(), root, resolveIgnore(t, root), nil)
	require.NoError(t, err)

	var link *Node
	for _, c := range tree.Children {
		if c.Name == "link" {
			link = c
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, KindSymlink, link.Kind)
	assert.Empty(t, link.Children)
	assert.Equal(t, filepath.Join(root, "real"), link.Target)
}

func TestWalkUnreadableDirectoryBecomesPlaceholder(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := newProject(t, map[string]string{
		"locked/secret.txt": "hidden",
		"open/visible.txt":  "shown",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "locked"), 0o755) })

	tree, err := Walk(context.Background(), root, resolveIgnore(t, root), nil)
	require.NoError(t, err)

	require.Equal(t, []string{"locked", "open"}, childNames(tree))

	locked := tree.Children[0]
	require.Len(t, locked.Children, 1)
	assert.Equal(t, KindError, locked.Children[0].Kind)
	assert.Contains(t, locked.Children[0].Message, "permission denied")

	// The sibling directory is unaffected.
	open := tree.Children[1]
	require.Len(t, open.Children, 1)
	assert.Equal(t, "visible.txt", open.Children[0].Name)
}

func TestWalkCancellation(t *testing.T) {
	root := newProject(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, root, resolveIgnore(t, root), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalkRejectsFileRoot(t *testing.T) {
	root := newProject(t, map[string]string{
		"plain.txt": "x",
	})

	_, err := Walk(context.Background(), filepath.Join(root, "plain.txt"), resolveIgnore(t, root), nil)
	assert.Error(t, err)
}

func TestWalkMissingRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv(ignore.GlobalIgnoreEnv, filepath.Join(root, "none"))

	_, err := Walk(context.Background(), filepath.Join(root, "does-not-exist"), resolveIgnore(t, root), nil)
	assert.Error(t, err)
}
