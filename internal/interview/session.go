package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/transcript"
)

// DefaultQuestions is the number of questions in a round when unspecified.
const DefaultQuestions = 5

// Snapshot is the persisted state of an interview session, keyed per user in
// the key-value store.
type Snapshot struct {
	Topic            string             `json:"topic"`
	QuestionCount    int                `json:"question_count"`
	MaxQuestions     int                `json:"max_questions"`
	TotalScore       int                `json:"total_score"`
	Transcript       []transcript.Entry `json:"transcript"`
	ActiveQuestionID string             `json:"active_question_id,omitempty"`
}

// Progress returns the completion percentage of the round.
func (s Snapshot) Progress() int {
	if s.MaxQuestions == 0 {
		return 0
	}
	p := s.QuestionCount * 100 / s.MaxQuestions
	if p > 100 {
		return 100
	}
	return p
}

// Finished reports whether the round asked all its questions and the last
// answer was evaluated. Progress hits 100 while the final answer is still
// pending, so resumption gates on this instead.
func (s Snapshot) Finished() bool {
	return s.QuestionCount >= s.MaxQuestions && s.ActiveQuestionID == ""
}

// Session drives one interview round: ask, answer, score, repeat. A session
// allows at most one in-flight remote call and never retries automatically;
// a failed call leaves the state unchanged so the user can resend.
type Session struct {
	userID string
	sim    *Simulator
	store  kv.Store

	mu       sync.Mutex
	inFlight bool
	snap     Snapshot
	log      *transcript.Log
}

// NewSession creates a session for userID on the given topic.
func NewSession(userID, topic string, maxQuestions int, sim *Simulator, store kv.Store) *Session {
	if maxQuestions <= 0 {
		maxQuestions = DefaultQuestions
	}
	return &Session{
		userID: userID,
		sim:    sim,
		store:  store,
		snap:   Snapshot{Topic: topic, MaxQuestions: maxQuestions},
		log:    transcript.NewLog(),
	}
}

func sessionKey(userID string) string {
	return "interview:" + userID
}

// Resume restores a previously persisted session, or returns (nil, nil) when
// none exists or the stored round already finished.
func Resume(ctx context.Context, userID string, sim *Simulator, store kv.Store) (*Session, error) {
	data, err := store.Get(ctx, sessionKey(userID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load interview session: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode interview session: %w", err)
	}
	if snap.Finished() {
		return nil, nil
	}

	return &Session{
		userID: userID,
		sim:    sim,
		store:  store,
		snap:   snap,
		log:    transcript.Restore(snap.Transcript),
	}, nil
}

// Ask requests the next question from the model, appends it to the transcript
// and marks it as the active question.
func (s *Session) Ask(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrBusy
	}
	if s.snap.QuestionCount >= s.snap.MaxQuestions {
		s.mu.Unlock()
		return "", ErrFinished
	}
	s.inFlight = true
	topic, asked := s.snap.Topic, s.askedQuestions()
	s.mu.Unlock()

	question, err := s.sim.NextQuestion(ctx, topic, asked)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return "", err
	}

	entry := s.log.AppendMessage(transcript.RoleAssistant, question)
	s.snap.ActiveQuestionID = entry.ID
	s.snap.QuestionCount++
	s.persistLocked(ctx)
	return question, nil
}

// Answer submits the user's answer to the active question and returns the
// model's evaluation.
func (s *Session) Answer(ctx context.Context, answer string) (Evaluation, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Evaluation{}, ErrBusy
	}
	active, ok := s.log.Find(s.snap.ActiveQuestionID)
	if !ok {
		s.mu.Unlock()
		return Evaluation{}, fmt.Errorf("interview: no active question")
	}
	s.inFlight = true
	s.mu.Unlock()

	eval, err := s.sim.Evaluate(ctx, active.Text, answer)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		// State unchanged; the same answer can be resent.
		return Evaluation{}, err
	}

	s.log.AppendMessage(transcript.RoleUser, answer)
	s.log.AppendMessage(transcript.RoleAssistant, eval.Feedback)
	s.snap.ActiveQuestionID = ""
	s.snap.TotalScore += eval.Score
	s.persistLocked(ctx)
	return eval, nil
}

// Finished reports whether the round asked all its questions and the last
// answer was evaluated.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Finished()
}

// Topic returns the subject this round interviews on.
func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Topic
}

// Progress returns the completion percentage of the round.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Progress()
}

// Score returns the accumulated score and the number of questions evaluated.
func (s *Session) Score() (total, questions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.TotalScore, s.snap.QuestionCount
}

// Transcript returns the ordered conversation history.
func (s *Session) Transcript() []transcript.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.All()
}

// Discard removes the persisted session once the round is over.
func (s *Session) Discard(ctx context.Context) error {
	return s.store.Remove(ctx, sessionKey(s.userID))
}

// askedQuestions lists the assistant questions already posed.
func (s *Session) askedQuestions() []string {
	var asked []string
	for _, e := range s.log.All() {
		if e.Role == transcript.RoleAssistant && e.IsQuestion() {
			asked = append(asked, e.Text)
		}
	}
	return asked
}

// persistLocked saves the snapshot; failures are swallowed since a lost
// session only degrades resumption. Callers hold s.mu.
func (s *Session) persistLocked(ctx context.Context) {
	s.snap.Transcript = s.log.All()
	data, err := json.Marshal(s.snap)
	if err != nil {
		return
	}
	_ = s.store.Set(ctx, sessionKey(s.userID), string(data))
}
