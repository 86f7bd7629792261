// Package transcript provides the append-only log of conversation messages and
// the parsing of message text into rich-content blocks.
package transcript

import (
	"fmt"
	"math/rand"
	"time"
)

// Role identifies the author of a transcript entry.
type Role string

// Entry authors.
const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Entry is a single immutable message in the conversation history.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Blocks    []Block   `json:"blocks,omitempty"`
}

// NewEntry creates an entry with a fresh ID, the current timestamp and the
// text pre-parsed into content blocks.
func NewEntry(role Role, text string) Entry {
	return Entry{
		ID:        NewEntryID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
		Blocks:    ParseBlocks(text),
	}
}

// NewEntryID generates a locally-unique entry identifier from the clock value
// and a short random suffix. Collisions are accepted as negligible for a
// single-writer conversation; this is not a cryptographic guarantee.
func NewEntryID() string {
	return fmt.Sprintf("%d-%04x", time.Now().UnixNano(), rand.Intn(0x10000))
}

// IsQuestion reports whether the entry is an assistant message ending in a
// question mark. Used only as a display heuristic; the engine tracks the
// active question by entry ID.
func (e Entry) IsQuestion() bool {
	if e.Role != RoleAssistant || e.Text == "" {
		return false
	}
	return e.Text[len(e.Text)-1] == '?'
}
