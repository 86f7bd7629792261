package interview

import (
	"fmt"
	"strings"
)

// systemPreamble is the fixed context prepended to every completion request.
const systemPreamble = `You are a senior software engineering interviewer conducting a technical interview.
Be direct and professional. Ask one question at a time.`

// buildQuestionPrompt asks for one new question on the topic, excluding the
// ones already asked.
func buildQuestionPrompt(topic string, asked []string) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)

	if len(asked) > 0 {
		b.WriteString("Questions already asked (do not repeat):\n")
		for _, q := range asked {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	b.WriteString("\nAsk exactly one new interview question about the topic. Reply with only the question.")
	return b.String()
}

// buildEvaluationPrompt asks for a structured score of an answer.
func buildEvaluationPrompt(question, answer string) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Candidate answer: %s\n\n", answer)
	b.WriteString(`Evaluate the answer. Reply with a JSON object: {"score": <0-10 integer>, "feedback": "<one short paragraph>"}`)
	return b.String()
}
