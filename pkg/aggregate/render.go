package aggregate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	treeBanner    = "========================================\n        Project Directory Tree\n========================================\n"
	contentBanner = "========================================\n          Aggregated Code Files\n========================================\n"

	// blockSeparator frames content blocks. It is unlikely to collide with
	// user content, but collisions are not escaped; that is a documented
	// limitation of the plain-text format.
	blockSeparator = "\n\n" + "================================================================================" + "\n\n"

	skippedNonText = "[Skipped: non-text content]"
	noFilesNotice  = "[No files to aggregate based on ignore rules]"
)

// RenderOptions tunes content emission.
type RenderOptions struct {
	// MaxFileSizeKB caps file content blocks; larger files get a placeholder.
	// Zero means no limit.
	MaxFileSizeKB int

	Logger *zap.Logger
}

// Render serializes the tree into the final document: the directory structure
// first, then one delimited content block per file in the same depth-first
// order. The result is deterministic for identical filesystem state.
func Render(tree *Node, opts RenderOptions) string {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var doc strings.Builder

	doc.WriteString(treeBanner)
	doc.WriteString("\n")
	doc.WriteString(renderStructure(tree))
	doc.WriteString("\n\n\n")
	doc.WriteString(contentBanner)
	doc.WriteString("\n")
	doc.WriteString(renderContents(tree, opts.MaxFileSizeKB, logger))
	doc.WriteString("\n")

	return doc.String()
}

// renderStructure emits the directory listing with box-drawing connectors.
func renderStructure(tree *Node) string {
	lines := []string{tree.Name + "/"}
	appendStructureLines(&lines, tree, "")
	return strings.Join(lines, "\n")
}

func appendStructureLines(lines *[]string, dir *Node, prefix string) {
	for i, child := range dir.Children {
		connector := "├── "
		extension := "│   "
		if i == len(dir.Children)-1 {
			connector = "└── "
			extension = "    "
		}

		switch child.Kind {
		case KindError:
			*lines = append(*lines, fmt.Sprintf("%s%s[Error: %s]", prefix, connector, child.Message))
		case KindDir:
			*lines = append(*lines, prefix+connector+child.Name+"/")
			appendStructureLines(lines, child, prefix+extension)
		case KindSymlink:
			if child.Target != "" {
				*lines = append(*lines, fmt.Sprintf("%s%s%s -> %s", prefix, connector, child.Name, child.Target))
			} else {
				*lines = append(*lines, prefix+connector+child.Name)
			}
		default:
			*lines = append(*lines, prefix+connector+child.Name)
		}
	}
}

// renderContents emits one block per file: a header carrying the relative
// path, then the body fenced as markdown with a language hint from the file
// extension. Undecodable and oversize files get placeholder bodies so a
// single bad file never loses the rest of the document.
func renderContents(tree *Node, maxFileSizeKB int, logger *zap.Logger) string {
	files := tree.Files()
	if len(files) == 0 {
		return noFilesNotice
	}

	blocks := make([]string, 0, len(files))
	for _, file := range files {
		blocks = append(blocks, renderFileBlock(file, maxFileSizeKB, logger))
	}
	return strings.Join(blocks, blockSeparator)
}

func renderFileBlock(file *Node, maxFileSizeKB int, logger *zap.Logger) string {
	header := fmt.Sprintf("--- File: %s ---", file.RelPath)

	if maxFileSizeKB > 0 {
		if info, err := os.Stat(file.Path); err == nil && info.Size() > int64(maxFileSizeKB)*1024 {
			logger.Debug("Skipping oversize file content",
				zap.String("relPath", file.RelPath),
				zap.Int64("sizeBytes", info.Size()))
			return fmt.Sprintf("%s\n\n[Skipped: file exceeds %d KB size limit]", header, maxFileSizeKB)
		}
	}

	content, err := os.ReadFile(file.Path)
	if err != nil {
		logger.Warn("Failed to read file content",
			zap.String("relPath", file.RelPath), zap.Error(err))
		return fmt.Sprintf("%s\n\n[Error reading file: %s]", header, readableCause(err))
	}

	if !isTextContent(content) {
		logger.Debug("Skipping non-text file content", zap.String("relPath", file.RelPath))
		return fmt.Sprintf("%s\n\n%s", header, skippedNonText)
	}

	hint := languageHint(file.Name)
	return fmt.Sprintf("%s\n\n```%s\n%s\n```", header, hint, string(content))
}

// languageHint derives a markdown fence hint from the file extension.
func languageHint(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	return ext[1:]
}
