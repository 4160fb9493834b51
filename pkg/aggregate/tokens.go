package aggregate

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// CountTokens estimates how many tokens the document costs for the given
// model. Unknown models fall back to the cl100k_base encoding. Returns the
// count and the name of the tokenizer actually used.
func CountTokens(document string, model string) (int, string, error) {
	model = strings.TrimSpace(strings.ToLower(model))

	if model != "" {
		if encoding, err := tiktoken.EncodingForModel(model); err == nil && encoding != nil {
			return len(encoding.Encode(document, nil, nil)), model, nil
		}
	}

	encoding, err := tiktoken.GetEncoding(fallbackEncoding)
	if err != nil {
		return 0, "", fmt.Errorf("initialize tokenizer: %w", err)
	}
	return len(encoding.Encode(document, nil, nil)), fallbackEncoding, nil
}
