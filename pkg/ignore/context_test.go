package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRoot creates a project root with the given ignore files and isolates the
// test from any real per-user global ignore file.
func newRoot(t *testing.T, gitignore, pagrignore string) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(GlobalIgnoreEnv, filepath.Join(root, "no-such-global-ignore"))

	if gitignore != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0o644))
	}
	if pagrignore != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, ".pagrignore"), []byte(pagrignore), 0o644))
	}
	return root
}

func TestResolveMissingFilesAreNotErrors(t *testing.T) {
	root := newRoot(t, "", "")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)
	assert.Greater(t, ctx.RuleCount(), 0, "builtin defaults are always present")
}

func TestResolveBuiltinDefaultsExcludeGit(t *testing.T) {
	root := newRoot(t, "", "")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	assert.True(t, ctx.Match(".git", true))
	assert.True(t, ctx.Match("node_modules", true))
	assert.True(t, ctx.Match("app.pyc", false))
	assert.False(t, ctx.Match("main.go", false))
}

func TestResolvePagrignoreNegationOverridesGitignore(t *testing.T) {
	root := newRoot(t, "*.log\n", "!debug.log\n")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	assert.False(t, ctx.Match("debug.log", false), "higher-precedence negation wins")
	assert.True(t, ctx.Match("other.log", false))
}

func TestResolveLastMatchingRuleWinsWithinFile(t *testing.T) {
	root := newRoot(t, "*.txt\n!notes.txt\nnotes.txt\n", "")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	assert.True(t, ctx.Match("notes.txt", false))
	assert.True(t, ctx.Match("other.txt", false))
}

func TestResolveGlobalIgnoreFileLowerPrecedenceThanProject(t *testing.T) {
	root := newRoot(t, "", "!special.tmp\n")
	globalPath := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(globalPath, []byte("*.tmp\n"), 0o644))

	ctx, err := Resolve(root, Options{GlobalIgnorePath: globalPath})
	require.NoError(t, err)

	assert.True(t, ctx.Match("scratch.tmp", false))
	assert.False(t, ctx.Match("special.tmp", false))
}

func TestResolveGlobalIgnoreFromEnvironment(t *testing.T) {
	root := t.TempDir()
	globalPath := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(globalPath, []byte("*.secret\n"), 0o644))
	t.Setenv(GlobalIgnoreEnv, globalPath)

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	assert.True(t, ctx.Match("api.secret", false))
}

func TestResolveExtraPatternsHighestPrecedence(t *testing.T) {
	root := newRoot(t, "", "!keep.log\n")

	ctx, err := Resolve(root, Options{ExtraPatterns: []string{"keep.log"}})
	require.NoError(t, err)

	assert.True(t, ctx.Match("keep.log", false))
}

func TestResolveCollectsParseWarnings(t *testing.T) {
	root := newRoot(t, "[unclosed\n*.log\n", "")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	warnings := ctx.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, SourceGitignore, warnings[0].Source.Label)
	assert.Equal(t, 1, warnings[0].Source.Line)

	// The rest of the file still parsed.
	assert.True(t, ctx.Match("debug.log", false))
}

func TestMatchWithRuleReportsDecisiveRule(t *testing.T) {
	root := newRoot(t, "*.log\n", "!debug.log\n")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	ignored, rule := ctx.MatchWithRule("debug.log", false)
	assert.False(t, ignored)
	require.NotNil(t, rule)
	assert.Equal(t, "!debug.log", rule.Pattern)
	assert.Equal(t, SourcePagrignore, rule.Source.Label)
}

func TestMatchDeterministic(t *testing.T) {
	root := newRoot(t, "*.log\n!debug.log\ndebug.*\n", "")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	first, _ := ctx.MatchWithRule("debug.log", false)
	for i := 0; i < 100; i++ {
		got, _ := ctx.MatchWithRule("debug.log", false)
		require.Equal(t, first, got)
	}
}

func TestMatchEmptyPathNeverIgnored(t *testing.T) {
	root := newRoot(t, "*\n", "")

	ctx, err := Resolve(root, Options{})
	require.NoError(t, err)

	assert.False(t, ctx.Match("", true))
}
