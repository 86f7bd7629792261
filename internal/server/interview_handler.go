package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/interview"
	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/transcript"
)

// DefaultInterviewQuestions is the question count when the client does not ask
// for a specific length.
const DefaultInterviewQuestions = 5

// InterviewResultStore is the subset of the database used to archive
// finished interview sessions.
type InterviewResultStore interface {
	SaveInterviewResult(ctx context.Context, userID uuid.UUID, topic string, totalScore, questionCount int) (*db.InterviewResult, error)
	ListInterviewResults(ctx context.Context, userID uuid.UUID, limit int) ([]db.InterviewResult, error)
}

// InterviewHandler serves the interview simulator endpoints. Live sessions
// are held in memory and snapshotted to the key-value store, so a restart
// resumes them from there.
type InterviewHandler struct {
	sim     *interview.Simulator
	store   kv.Store
	results InterviewResultStore
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*interview.Session
}

// NewInterviewHandler creates a handler running interviews through the given
// simulator.
func NewInterviewHandler(sim *interview.Simulator, store kv.Store, results InterviewResultStore, log zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		sim:      sim,
		store:    store,
		results:  results,
		log:      log,
		sessions: make(map[string]*interview.Session),
	}
}

type startInterviewRequest struct {
	Topic     string `json:"topic"`
	Questions int    `json:"questions,omitempty"`
}

type interviewReplyResponse struct {
	Question string             `json:"question,omitempty"`
	EntryID  string             `json:"entry_id,omitempty"`
	Score    int                `json:"score,omitempty"`
	Feedback string             `json:"feedback,omitempty"`
	Progress int                `json:"progress"`
	Finished bool               `json:"finished"`
	Entries  []transcript.Entry `json:"entries,omitempty"`
}

// Start begins a new interview session on the requested topic and returns
// the first question.
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	var req startInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "Topic is required", http.StatusBadRequest)
		return
	}
	questions := req.Questions
	if questions <= 0 {
		questions = DefaultInterviewQuestions
	}

	session := interview.NewSession(uid, req.Topic, questions, h.sim, h.store)
	question, err := session.Ask(r.Context())
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to ask opening question")
		http.Error(w, "Failed to generate question", http.StatusBadGateway)
		return
	}

	h.mu.Lock()
	h.sessions[uid] = session
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, interviewReplyResponse{
		Question: question,
		Progress: session.Progress(),
	})
}

// Answer submits the candidate's answer to the active question. The reply
// carries the evaluation and, when the session is still open, the next
// question.
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Answer text is required", http.StatusBadRequest)
		return
	}

	session, err := h.session(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	eval, err := session.Answer(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, interview.ErrBusy) {
			http.Error(w, "A request is already in flight", http.StatusConflict)
			return
		}
		h.log.Error().Err(err).Str("user_id", uid).Msg("interview answer failed")
		http.Error(w, "Failed to evaluate answer", http.StatusBadGateway)
		return
	}

	resp := interviewReplyResponse{
		Score:    eval.Score,
		Feedback: eval.Feedback,
		Finished: session.Finished(),
	}

	if session.Finished() {
		h.archive(r.Context(), userID, session)
	} else {
		question, err := session.Ask(r.Context())
		if err != nil {
			// The evaluation already landed; the client can re-request
			// the next question by answering again or reloading.
			h.log.Warn().Err(err).Str("user_id", uid).Msg("next question failed")
		} else {
			resp.Question = question
		}
	}
	resp.Progress = session.Progress()

	writeJSON(w, http.StatusOK, resp)
}

// Status reports the transcript and progress of the active session.
func (h *InterviewHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	session, err := h.session(r.Context(), userID.String())
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	total, questions := session.Score()
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":   session.Transcript(),
		"progress":  session.Progress(),
		"score":     total,
		"questions": questions,
		"finished":  session.Finished(),
	})
}

// History lists the user's archived interview rounds, newest first.
func (h *InterviewHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := h.results.ListInterviewResults(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "Failed to list interview results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Discard abandons the active session without archiving a result.
func (h *InterviewHandler) Discard(w http.ResponseWriter, r *http.Request) {
	userID, err := middlewareUserID(w, r)
	if err != nil {
		return
	}
	uid := userID.String()

	session, err := h.session(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	if err := session.Discard(r.Context()); err != nil {
		http.Error(w, "Failed to discard session", http.StatusInternalServerError)
		return
	}
	h.mu.Lock()
	delete(h.sessions, uid)
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// session returns the live session for a user, resuming from the key-value
// store after a restart.
func (h *InterviewHandler) session(ctx context.Context, userID string) (*interview.Session, error) {
	h.mu.Lock()
	session, ok := h.sessions[userID]
	h.mu.Unlock()
	if ok {
		return session, nil
	}

	session, err := interview.Resume(ctx, userID, h.sim, h.store)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &ErrNoActiveSession{Kind: "interview"}
	}

	h.mu.Lock()
	h.sessions[userID] = session
	h.mu.Unlock()
	return session, nil
}

// archive stores the finished session's score and drops the live session.
func (h *InterviewHandler) archive(ctx context.Context, userID uuid.UUID, session *interview.Session) {
	total, questions := session.Score()
	if _, err := h.results.SaveInterviewResult(ctx, userID, session.Topic(), total, questions); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to archive interview result")
	}
	if err := session.Discard(ctx); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear interview snapshot")
	}
	h.mu.Lock()
	delete(h.sessions, userID.String())
	h.mu.Unlock()
}
