package conversation

import (
	"fmt"
	"math/rand"
	"time"
)

// State is the sequencer position of a conversation. It is a plain value;
// Advance never mutates its input and returns a new State instead.
type State struct {
	Step    Step    `json:"step"`
	SubStep SubStep `json:"sub_step"`

	// TempData accumulates the fields of a multi-field entry (one education
	// or experience item, for example) across its sub-steps. It is non-empty
	// only while inside a repeatable-entry sub-flow and is cleared exactly
	// when the entry is committed to the record.
	TempData map[string]string `json:"temp_data,omitempty"`

	// ActiveQuestionID holds the transcript entry ID of the question the
	// engine is currently waiting on, so answer pairing never needs a
	// transcript scan.
	ActiveQuestionID string `json:"active_question_id,omitempty"`
}

// NewState returns the initial sequencer state.
func NewState() State {
	return State{Step: StepIntro, SubStep: SubName}
}

// withPosition returns a copy of s positioned at (step, sub).
func (s State) withPosition(step Step, sub SubStep) State {
	s.Step = step
	s.SubStep = sub
	return s
}

// withTemp returns a copy of s with key set in a copied TempData map.
func (s State) withTemp(key, value string) State {
	temp := make(map[string]string, len(s.TempData)+1)
	for k, v := range s.TempData {
		temp[k] = v
	}
	temp[key] = value
	s.TempData = temp
	return s
}

// clearTemp returns a copy of s with TempData dropped.
func (s State) clearTemp() State {
	s.TempData = nil
	return s
}

// WithActiveQuestion returns a copy of s recording the transcript entry ID of
// the question the engine is now waiting on.
func (s State) WithActiveQuestion(entryID string) State {
	s.ActiveQuestionID = entryID
	return s
}

// Terminal reports whether the conversation has finished.
func (s State) Terminal() bool {
	return s.Step == StepComplete
}

// Progress returns the completion percentage derived from the step index,
// refined by the sub-step position inside the personal-info steps. It is
// monotonic under normal forward flow and clamped to [0, 100].
func Progress(s State) int {
	idx := stepIndex(s.Step)
	if idx < 0 {
		return 0
	}
	span := float64(len(stepOrder) - 1)
	base := float64(idx) / span * 100

	// Within personal info, credit the fraction of fields already collected.
	if s.Step == StepPersonal {
		if sub := subStepIndex(s.Step, s.SubStep); sub > 0 {
			base += float64(sub) / float64(len(stepSubSteps[s.Step])) / span * 100
		}
	}

	p := int(base)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// newLocalID generates a locally-unique identifier for a committed sub-record
// from the clock value and a short random suffix. Single-writer scope only.
func newLocalID() string {
	return fmt.Sprintf("%d-%04x", time.Now().UnixNano(), rand.Intn(0x10000))
}
