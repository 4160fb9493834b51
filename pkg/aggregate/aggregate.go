// Package aggregate walks a project tree, renders it into a single text
// document, and writes the result.
package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pagr/pkg/ignore"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Arguments holds the options for one aggregation run.
type Arguments struct {
	Path          string   // project directory to aggregate
	Output        string   // destination path for the rendered document
	GlobalIgnore  string   // optional path to the per-user global ignore file
	ExtraExcludes []string // additional ignore patterns from config or flags
	MaxFileSizeKB int      // content blocks above this size are skipped; 0 = no limit
	Clipboard     bool     // copy the rendered document to the system clipboard
	Tokens        bool     // log an estimated token count for the document
	Model         string   // tokenizer model for --tokens
	Verbose       bool
}

// Run executes one aggregation: resolve ignore rules for the project root,
// walk the tree, render the document, and write it out. Per-entry problems
// degrade to placeholders; only configuration and write errors abort.
func Run(ctx context.Context, args Arguments, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	rootPath, err := filepath.Abs(args.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return fmt.Errorf("invalid project path %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path %s is not a directory", rootPath)
	}

	logger.Info("Starting aggregation",
		zap.String("project", rootPath),
		zap.String("output", args.Output))

	ic, err := ignore.Resolve(rootPath, ignore.Options{
		GlobalIgnorePath: args.GlobalIgnore,
		ExtraPatterns:    args.ExtraExcludes,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to load ignore rules: %w", err)
	}

	tree, err := Walk(ctx, rootPath, ic, logger)
	if err != nil {
		return fmt.Errorf("failed to walk project tree: %w", err)
	}

	files := tree.Files()
	if len(files) == 0 {
		logger.Warn("No files to aggregate after applying ignore rules")
	}

	document := Render(tree, RenderOptions{
		MaxFileSizeKB: args.MaxFileSizeKB,
		Logger:        logger,
	})

	if args.Tokens {
		count, name, tokErr := CountTokens(document, args.Model)
		if tokErr != nil {
			logger.Warn("Token counting failed", zap.Error(tokErr))
		} else {
			logger.Info("Estimated token count",
				zap.Int("tokens", count),
				zap.String("tokenizer", name))
		}
	}

	if err := Write(document, args.Output, logger); err != nil {
		return err
	}

	if args.Clipboard {
		if err := clipboard.WriteAll(document); err != nil {
			logger.Warn("Failed to copy output to clipboard", zap.Error(err))
		} else {
			logger.Info("Copied output to clipboard")
		}
	}

	logger.Info("Aggregation completed",
		zap.Int("files", len(files)),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}
