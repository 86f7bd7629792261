// Package interview implements the AI interview simulator: question
// generation and free-text answer scoring through the completion client,
// sharing the transcript and draft lifecycle of the guided conversation.
package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mariana/devlink-assistant/internal/llm"
)

// Evaluation is the structured score the model assigns to an answer.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Simulator generates interview questions and evaluates answers.
type Simulator struct {
	client llm.Client
}

// NewSimulator creates a simulator on top of a completion client.
func NewSimulator(client llm.Client) *Simulator {
	return &Simulator{client: client}
}

// NextQuestion asks the model for one new interview question on the topic,
// avoiding the already-asked questions.
func (s *Simulator) NextQuestion(ctx context.Context, topic string, asked []string) (string, error) {
	prompt := buildQuestionPrompt(topic, asked)

	text, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", &RemoteError{Operation: "generate question", Cause: err}
	}

	question := strings.TrimSpace(text)
	if question == "" {
		return "", &RemoteError{Operation: "generate question", Cause: fmt.Errorf("empty completion")}
	}
	return question, nil
}

// Evaluate scores a free-text answer against the question it belongs to.
func (s *Simulator) Evaluate(ctx context.Context, question, answer string) (Evaluation, error) {
	prompt := buildEvaluationPrompt(question, answer)

	text, err := s.client.CompleteJSON(ctx, prompt)
	if err != nil {
		return Evaluation{}, &RemoteError{Operation: "evaluate answer", Cause: err}
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &eval); err != nil {
		return Evaluation{}, &RemoteError{Operation: "evaluate answer", Cause: fmt.Errorf("unparseable evaluation: %w", err)}
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 10 {
		eval.Score = 10
	}
	return eval, nil
}
