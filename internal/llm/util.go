package llm

import (
	"strings"

	"github.com/mariana/devlink-assistant/internal/transcript"
)

// CleanJSONBlock extracts the JSON payload from a model reply. Models often
// wrap JSON in ```json fences even when instructed not to, sometimes with
// prose around the fence; the first fenced region wins when one exists.
func CleanJSONBlock(text string) string {
	for _, block := range transcript.ParseBlocks(text) {
		if block.Kind == transcript.BlockCode {
			return strings.TrimSpace(block.Content)
		}
	}
	return strings.TrimSpace(text)
}
