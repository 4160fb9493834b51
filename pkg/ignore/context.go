package ignore

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Source labels for the fixed layers of an ignore context.
const (
	SourceBuiltin    = "builtin"
	SourceGitignore  = ".gitignore"
	SourcePagrignore = ".pagrignore"
	SourceExtra      = "extra"
)

// GlobalIgnoreEnv overrides the default global ignore file location.
const GlobalIgnoreEnv = "PAGR_GLOBAL_IGNORE"

// Options configures Resolve.
type Options struct {
	// GlobalIgnorePath points at the per-user global ignore file. Empty means
	// the PAGR_GLOBAL_IGNORE environment variable, then the default location
	// under the user config directory.
	GlobalIgnorePath string

	// ExtraPatterns are additional patterns (from configuration or the
	// command line) layered on top of all file sources.
	ExtraPatterns []string

	Logger *zap.Logger
}

// Context is the merged, ready-to-query view of all ignore sources for one
// run. Rules are held in precedence order: builtin defaults, then the global
// user ignore file, then the project .gitignore, then the project .pagrignore,
// then extra patterns. The last matching rule wins. Immutable after Resolve.
type Context struct {
	rules    []Rule
	warnings []ParseWarning
}

// Resolve builds the ignore context for the project rooted at rootPath.
// Missing ignore files are simply absent sources, not errors.
func Resolve(rootPath string, opts Options) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx := &Context{}
	ctx.addRules(ParseLines(SourceBuiltin, defaultPatterns))

	globalPath := opts.GlobalIgnorePath
	if globalPath == "" {
		globalPath = os.Getenv(GlobalIgnoreEnv)
	}
	if globalPath == "" {
		globalPath = DefaultGlobalIgnorePath()
	}
	if globalPath != "" {
		if err := ctx.addFile(globalPath, globalPath); err != nil {
			return nil, err
		}
	}

	if err := ctx.addFile(filepath.Join(rootPath, ".gitignore"), SourceGitignore); err != nil {
		return nil, err
	}
	if err := ctx.addFile(filepath.Join(rootPath, ".pagrignore"), SourcePagrignore); err != nil {
		return nil, err
	}

	if len(opts.ExtraPatterns) > 0 {
		content := ""
		for _, p := range opts.ExtraPatterns {
			content += p + "\n"
		}
		ctx.addRules(ParseLines(SourceExtra, content))
	}

	for _, w := range ctx.warnings {
		logger.Warn("Skipped malformed ignore pattern",
			zap.String("source", w.Source.Label),
			zap.Int("line", w.Source.Line),
			zap.String("pattern", w.Pattern),
			zap.String("reason", w.Message))
	}
	logger.Debug("Resolved ignore context",
		zap.String("root", rootPath),
		zap.Int("rules", len(ctx.rules)))

	return ctx, nil
}

// DefaultGlobalIgnorePath returns the per-user global ignore file location,
// or "" if the user config directory cannot be determined.
func DefaultGlobalIgnorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pagr", "ignore")
}

func (c *Context) addRules(rules []Rule, warnings []ParseWarning) {
	c.rules = append(c.rules, rules...)
	c.warnings = append(c.warnings, warnings...)
}

func (c *Context) addFile(path, label string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	c.addRules(ParseLines(label, string(content)))
	return nil
}

// Match reports whether the path should be excluded. relPath is relative to
// the project root; isDir tells directory-only patterns what they are seeing.
// Note that exclusion of a directory is terminal for its descendants: the
// walker never descends into an excluded directory, so no rule here can
// resurrect anything beneath one.
func (c *Context) Match(relPath string, isDir bool) bool {
	ignored, _ := c.MatchWithRule(relPath, isDir)
	return ignored
}

// MatchWithRule additionally returns the deciding rule, or nil when no rule
// matched.
func (c *Context) MatchWithRule(relPath string, isDir bool) (bool, *Rule) {
	pathSegments := splitPath(normalizePath(relPath))
	if len(pathSegments) == 0 {
		return false, nil
	}

	budget := &matchBudget{}
	ignored := false
	var decisive *Rule

	for i := range c.rules {
		r := &c.rules[i]
		if r.match(pathSegments, isDir, budget) {
			ignored = !r.Negate
			decisive = r
		}
	}

	return ignored, decisive
}

// Warnings returns the parse warnings collected while resolving.
func (c *Context) Warnings() []ParseWarning {
	return c.warnings
}

// RuleCount returns the number of loaded rules.
func (c *Context) RuleCount() int {
	return len(c.rules)
}
