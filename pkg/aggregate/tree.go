package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pagr/pkg/ignore"

	"go.uber.org/zap"
)

// Kind classifies a tree node.
type Kind int

const (
	KindDir Kind = iota
	KindFile
	KindSymlink
	KindError // placeholder for an entry that could not be read
)

// Node is one filesystem entry that survived ignore filtering. Nodes are
// created during the walk and never mutated afterwards.
type Node struct {
	Name     string
	Path     string // absolute path
	RelPath  string // slash-separated path relative to the walk root
	Kind     Kind
	Children []*Node // directories only, sorted
	Target   string  // symlinks: the link text, not the resolved target
	Message  string  // error placeholders: what went wrong
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDir
}

// Walk traverses the project rooted at rootPath depth-first, pruning entries
// excluded by the ignore context, and returns the surviving tree.
//
// Children are ordered directories first, then byte-wise by name, so output
// is reproducible regardless of the platform's native directory ordering.
// Excluded directories are not descended into, which makes directory
// exclusion terminal for everything beneath them. Unreadable entries become
// error placeholder nodes instead of aborting the walk. Symlinks are leaves
// carrying their link text and are never followed.
func Walk(ctx context.Context, rootPath string, ic *ignore.Context, logger *zap.Logger) (*Node, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", absRoot)
	}

	root := &Node{
		Name:    filepath.Base(absRoot),
		Path:    absRoot,
		RelPath: "",
		Kind:    KindDir,
	}

	if err := walkDir(ctx, root, ic, logger); err != nil {
		return nil, err
	}
	return root, nil
}

func walkDir(ctx context.Context, parent *Node, ic *ignore.Context, logger *zap.Logger) error {
	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		logger.Warn("Failed to read directory, recording placeholder",
			zap.String("path", parent.Path), zap.Error(err))
		parent.Children = append(parent.Children, &Node{
			Name:    parent.Name,
			Path:    parent.Path,
			RelPath: parent.RelPath,
			Kind:    KindError,
			Message: readableCause(err),
		})
		return nil
	}

	// Directories before files, then byte-wise by name. Case-sensitive on
	// purpose: it keeps the order identical across filesystems.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(parent.Path, entry.Name())
		relPath := entry.Name()
		if parent.RelPath != "" {
			relPath = parent.RelPath + "/" + entry.Name()
		}

		isSymlink := entry.Type()&os.ModeSymlink != 0
		isDir := entry.IsDir() && !isSymlink

		if ic.Match(relPath, isDir) {
			logger.Debug("Skipping ignored entry", zap.String("relPath", relPath))
			continue
		}

		node := &Node{
			Name:    entry.Name(),
			Path:    path,
			RelPath: relPath,
		}

		switch {
		case isSymlink:
			node.Kind = KindSymlink
			if target, err := os.Readlink(path); err == nil {
				node.Target = target
			}
		case isDir:
			node.Kind = KindDir
			if err := walkDir(ctx, node, ic, logger); err != nil {
				return err
			}
		default:
			node.Kind = KindFile
		}

		parent.Children = append(parent.Children, node)
	}

	return nil
}

// Files returns all file nodes in depth-first order, which is also the order
// the renderer emits content blocks in.
func (n *Node) Files() []*Node {
	var files []*Node
	n.visit(func(node *Node) {
		if node.Kind == KindFile {
			files = append(files, node)
		}
	})
	return files
}

func (n *Node) visit(fn func(*Node)) {
	for _, child := range n.Children {
		fn(child)
		child.visit(fn)
	}
}

// readableCause trims the wrapping os noise from an error for placeholder
// display ("permission denied" instead of the full *PathError text).
func readableCause(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
