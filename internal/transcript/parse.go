package transcript

import "strings"

// BlockKind distinguishes plain text from fenced code content.
type BlockKind string

// Block kinds.
const (
	BlockText BlockKind = "text"
	BlockCode BlockKind = "code"
)

// Block is one parsed segment of a message.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Content  string    `json:"content"`
	Language string    `json:"language,omitempty"`
}

const fence = "```"

// ParseBlocks splits message text on fenced code block delimiters.
// Text before, between and after fences becomes text blocks; each fenced
// region becomes a code block tagged with the optional language that follows
// the opening fence. A message with no fences yields a single text block.
// Each message is parsed independently; an unclosed fence consumes the rest
// of the message as code. The scan is a single linear pass.
func ParseBlocks(text string) []Block {
	if text == "" {
		return nil
	}

	var blocks []Block
	rest := text
	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			if rest != "" {
				blocks = append(blocks, Block{Kind: BlockText, Content: rest})
			}
			break
		}

		if before := rest[:open]; before != "" {
			blocks = append(blocks, Block{Kind: BlockText, Content: before})
		}
		rest = rest[open+len(fence):]

		// Language tag runs from the opening fence to the first newline.
		lang := ""
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			lang = strings.TrimSpace(rest[:nl])
			rest = rest[nl+1:]
		}

		closing := strings.Index(rest, fence)
		if closing < 0 {
			// Unbalanced fence: the remainder is code.
			blocks = append(blocks, Block{Kind: BlockCode, Content: rest, Language: lang})
			break
		}

		blocks = append(blocks, Block{Kind: BlockCode, Content: rest[:closing], Language: lang})
		rest = rest[closing+len(fence):]
	}

	if blocks == nil {
		blocks = []Block{{Kind: BlockText, Content: text}}
	}
	return blocks
}
