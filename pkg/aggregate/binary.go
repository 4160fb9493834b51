package aggregate

import (
	"bytes"
	"unicode/utf8"
)

// isTextContent reports whether data decodes as UTF-8 text. A NUL byte or an
// invalid sequence means the file is treated as binary and its content block
// is replaced by a placeholder. Empty files are text.
func isTextContent(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}
