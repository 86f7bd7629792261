// Package draft persists in-progress conversation snapshots keyed per user,
// so an interrupted session can be resumed.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mariana/devlink-assistant/internal/conversation"
	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/transcript"
	"github.com/mariana/devlink-assistant/internal/types"
)

// Draft is a snapshot of an in-progress conversation. At most one live draft
// exists per user; saves overwrite with last-write-wins semantics.
type Draft struct {
	State        conversation.State       `json:"state"`
	Record       types.ConversationRecord `json:"record"`
	Transcript   []transcript.Entry       `json:"transcript"`
	Progress     int                      `json:"progress"`
	LastModified time.Time                `json:"last_modified"`
}

// Resumable reports whether the draft represents an unfinished conversation.
func (d *Draft) Resumable() bool {
	return d != nil && d.Progress < 100
}

// Store saves, loads and discards drafts through a key-value store. The
// serialized shape is a JSON document local to this package.
type Store struct {
	kv kv.Store
}

// NewStore creates a draft store on top of a key-value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func draftKey(userID string) string {
	return "draft:" + userID
}

// Save persists the draft for userID, stamping LastModified. Saving is
// idempotent and overwrites any prior draft for the same user.
func (s *Store) Save(ctx context.Context, userID string, d Draft) error {
	d.LastModified = time.Now()

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.kv.Set(ctx, draftKey(userID), string(data)); err != nil {
		return fmt.Errorf("failed to save draft for %s: %w", userID, err)
	}
	return nil
}

// Load returns the stored draft for userID, or (nil, nil) when absent.
func (s *Store) Load(ctx context.Context, userID string) (*Draft, error) {
	data, err := s.kv.Get(ctx, draftKey(userID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft for %s: %w", userID, err)
	}

	var d Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft for %s: %w", userID, err)
	}
	return &d, nil
}

// Discard removes the persisted draft. It must be called exactly once, after
// the finalized record is confirmed saved, so a stale draft cannot resurrect
// on the next visit.
func (s *Store) Discard(ctx context.Context, userID string) error {
	if err := s.kv.Remove(ctx, draftKey(userID)); err != nil {
		return fmt.Errorf("failed to discard draft for %s: %w", userID, err)
	}
	return nil
}
