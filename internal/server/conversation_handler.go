package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mariana/devlink-assistant/internal/conversation"
	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/draft"
	"github.com/mariana/devlink-assistant/internal/notify"
	"github.com/mariana/devlink-assistant/internal/preview"
	"github.com/mariana/devlink-assistant/internal/schemas"
	"github.com/mariana/devlink-assistant/internal/transcript"
	"github.com/mariana/devlink-assistant/internal/types"
)

// ResumeStore is the subset of the database used when finalizing a conversation.
type ResumeStore interface {
	SaveResume(ctx context.Context, userID uuid.UUID, record types.ConversationRecord) (*db.Resume, error)
	GetResumeByUser(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	DeleteResume(ctx context.Context, userID uuid.UUID) error
}

// ConversationHandler serves the guided resume conversation endpoints.
type ConversationHandler struct {
	drafts    *draft.Store
	savers    *draft.Savers
	resumes   ResumeStore
	reminders *notify.Scheduler
	log       zerolog.Logger
}

// NewConversationHandler creates a handler over the given draft and resume stores.
// The reminder scheduler is optional.
func NewConversationHandler(drafts *draft.Store, savers *draft.Savers, resumes ResumeStore, reminders *notify.Scheduler, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		drafts:    drafts,
		savers:    savers,
		resumes:   resumes,
		reminders: reminders,
		log:       log,
	}
}

// messageRequest is one user utterance.
type messageRequest struct {
	Text string `json:"text"`
}

// messageResponse carries the assistant reply and the updated position.
type messageResponse struct {
	Reply     string             `json:"reply"`
	Blocks    []transcript.Block `json:"blocks"`
	EntryID   string             `json:"entry_id"`
	Step      string             `json:"step"`
	SubStep   string             `json:"sub_step"`
	Progress  int                `json:"progress"`
	Previewed bool               `json:"previewed,omitempty"`
	Finished  bool               `json:"finished,omitempty"`
}

// statusResponse describes the current conversation position.
type statusResponse struct {
	Active   bool   `json:"active"`
	Step     string `json:"step,omitempty"`
	SubStep  string `json:"sub_step,omitempty"`
	Progress int    `json:"progress"`
	Prompt   string `json:"prompt,omitempty"`
}

// Start opens a new conversation, replacing any resumable draft.
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	// A snapshot pending from a previous conversation must not land on top
	// of the fresh draft.
	h.savers.For(uid).Cancel()

	state := conversation.NewState()
	log := transcript.NewLog()
	opening := log.AppendMessage(transcript.RoleAssistant, conversation.Prompt(state))
	state = state.WithActiveQuestion(opening.ID)

	d := draft.Draft{
		State:      state,
		Transcript: log.All(),
		Progress:   conversation.Progress(state),
	}
	if err := h.drafts.Save(r.Context(), uid, d); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to start conversation")
		http.Error(w, "Failed to start conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Reply:    opening.Text,
		Blocks:   opening.Blocks,
		EntryID:  opening.ID,
		Step:     string(state.Step),
		SubStep:  string(state.SubStep),
		Progress: conversation.Progress(state),
	})
}

// Message processes one user utterance and returns the assistant reply.
// The updated draft is persisted through the trailing-edge debounced saver.
func (h *ConversationHandler) Message(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Message text is required", http.StatusBadRequest)
		return
	}

	d, err := h.loadDraft(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	log := transcript.Restore(d.Transcript)
	log.AppendMessage(transcript.RoleUser, req.Text)

	result, err := conversation.Advance(d.State, d.Record, req.Text)
	if err != nil {
		var unknown *conversation.ErrUnknownSubStep
		if !errors.As(err, &unknown) {
			http.Error(w, "Failed to process message", http.StatusInternalServerError)
			return
		}
		// The stored position was invalid; the result still carries a
		// recovery reply, so the conversation continues.
		h.log.Warn().Err(err).Str("user_id", uid).Msg("conversation position recovered")
	}

	reply := log.AppendMessage(transcript.RoleAssistant, result.Reply)
	state := result.State.WithActiveQuestion(reply.ID)

	updated := draft.Draft{
		State:      state,
		Record:     result.Record,
		Transcript: log.All(),
		Progress:   conversation.Progress(state),
	}
	h.savers.For(uid).Schedule(uid, updated)

	writeJSON(w, http.StatusOK, messageResponse{
		Reply:     reply.Text,
		Blocks:    reply.Blocks,
		EntryID:   reply.ID,
		Step:      string(state.Step),
		SubStep:   string(state.SubStep),
		Progress:  conversation.Progress(state),
		Previewed: result.Previewed,
		Finished:  result.Finished,
	})
}

// Status reports whether a resumable conversation exists and where it stands.
func (h *ConversationHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	d, err := h.loadDraft(r.Context(), userID.String())
	var missing *ErrNoActiveSession
	if err != nil && !errors.As(err, &missing) {
		http.Error(w, "Failed to load draft", http.StatusInternalServerError)
		return
	}
	if d == nil || !d.Resumable() {
		writeJSON(w, http.StatusOK, statusResponse{Active: false})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Active:   true,
		Step:     string(d.State.Step),
		SubStep:  string(d.State.SubStep),
		Progress: d.Progress,
		Prompt:   conversation.Prompt(d.State),
	})
}

// Transcript returns the stored conversation history.
func (h *ConversationHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	d, err := h.loadDraft(r.Context(), userID.String())
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": d.Transcript})
}

// Preview renders the record collected so far without advancing the state.
func (h *ConversationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	d, err := h.loadDraft(r.Context(), userID.String())
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"preview": preview.Render(d.Record)})
}

// Finalize validates the completed record, persists it as the user's resume
// and discards the draft.
func (h *ConversationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	// A pending debounced snapshot may be newer than the stored draft.
	h.savers.For(uid).Flush()

	d, err := h.loadDraft(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	if err := schemas.ValidateResume(d.Record); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, ve)
			return
		}
		http.Error(w, "Validation failed", http.StatusInternalServerError)
		return
	}

	resume, err := h.resumes.SaveResume(r.Context(), userID, d.Record)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to save resume")
		http.Error(w, "Failed to save resume", http.StatusInternalServerError)
		return
	}

	h.savers.For(uid).Cancel()
	if err := h.drafts.Discard(r.Context(), uid); err != nil {
		h.log.Warn().Err(err).Str("user_id", uid).Msg("failed to discard draft")
	}

	if h.reminders != nil {
		h.reminders.ScheduleAt("resume-review:"+uid, time.Now().Add(7*24*time.Hour), notify.Reminder{
			ID:      "resume-review:" + uid,
			UserID:  uid,
			Message: "It's been a week since you saved your resume. Want to review it?",
		})
	}

	writeJSON(w, http.StatusCreated, resume)
}

// Discard drops the draft and any pending debounced save.
func (h *ConversationHandler) Discard(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	h.savers.For(uid).Cancel()
	if err := h.drafts.Discard(r.Context(), uid); err != nil {
		http.Error(w, "Failed to discard draft", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resume returns the finalized resume stored for the user.
func (h *ConversationHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	resume, err := h.resumes.GetResumeByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load resume", http.StatusInternalServerError)
		return
	}
	if resume == nil {
		http.Error(w, "Resume not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

// DeleteResume removes the finalized resume stored for the user.
func (h *ConversationHandler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	if err := h.resumes.DeleteResume(r.Context(), userID); err != nil {
		http.Error(w, "Failed to delete resume", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadDraft fetches the user's draft, mapping absence to a typed error.
// A snapshot still inside the debounce window wins over the stored draft.
func (h *ConversationHandler) loadDraft(ctx context.Context, userID string) (*draft.Draft, error) {
	if pending, ok := h.savers.For(userID).Pending(); ok {
		return pending, nil
	}
	d, err := h.drafts.Load(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to load draft")
		return nil, err
	}
	if d == nil {
		return nil, &ErrNoActiveSession{Kind: "conversation"}
	}
	return d, nil
}
