package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

// emailPattern accepts the simple local@domain.tld shape; anything stricter
// rejects addresses real users type.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validEmail reports whether input looks like local@domain.tld.
func validEmail(input string) bool {
	return emailPattern.MatchString(strings.TrimSpace(input))
}

// normalizePhone strips grouping characters. Malformed phone numbers are
// normalized but never rejected.
func normalizePhone(input string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(input) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return strings.TrimSpace(input)
	}
	return b.String()
}

// parsePeriod validates a "YYYY - YYYY" style range: exactly two
// dash-delimited non-empty tokens. Returns the normalized range.
func parsePeriod(input string) (string, bool) {
	parts := strings.Split(input, "-")
	if len(parts) != 2 {
		return "", false
	}
	from := strings.TrimSpace(parts[0])
	to := strings.TrimSpace(parts[1])
	if from == "" || to == "" {
		return "", false
	}
	return from + " - " + to, true
}

// matchChoice resolves a numbered-choice answer against the canonical option
// names: an exact numeral token selects by position, otherwise a
// case-insensitive substring of an option's name selects that option.
// Returns -1 when nothing matches.
func matchChoice(input string, options []string) int {
	trimmed := strings.TrimSpace(input)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1
		}
		return -1
	}

	lower := strings.ToLower(trimmed)
	if lower == "" {
		return -1
	}
	for i, opt := range options {
		if strings.Contains(strings.ToLower(opt), lower) {
			return i
		}
	}
	return -1
}

// isYes matches affirmative answers by substring containment on "sim"/"yes"
// or a bare single-letter shorthand.
func isYes(input string) bool {
	norm := strings.ToLower(strings.TrimSpace(input))
	if norm == "s" || norm == "y" {
		return true
	}
	return strings.Contains(norm, "sim") || strings.Contains(norm, "yes")
}

// command kinds recognized at every step regardless of sequencer position.
type command int

const (
	cmdNone command = iota
	cmdPreview
	cmdFinish
)

// parseCommand recognizes the global preview and finish commands.
func parseCommand(input string) command {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "preview", "visualizar":
		return cmdPreview
	case "finalizar", "finish", "done":
		return cmdFinish
	}
	return cmdNone
}

// parseEditCommand recognizes the review step's "edit <section>" command and
// returns the named step, or "" when the input is not an edit command.
func parseEditCommand(input string) Step {
	norm := strings.ToLower(strings.TrimSpace(input))
	var name string
	switch {
	case strings.HasPrefix(norm, "edit "):
		name = strings.TrimSpace(norm[len("edit "):])
	case strings.HasPrefix(norm, "editar "):
		name = strings.TrimSpace(norm[len("editar "):])
	default:
		return ""
	}

	for _, step := range stepOrder {
		if editable(step) && strings.Contains(string(step), name) {
			return step
		}
	}
	return ""
}

// editable reports whether a step can be restarted from the review step.
func editable(step Step) bool {
	switch step {
	case StepIntro, StepReview, StepComplete:
		return false
	}
	return true
}
