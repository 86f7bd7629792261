package conversation

import "fmt"

// ErrUnknownSubStep reports a (step, sub-step) pair outside the fixed
// sequencing tables. Advance surfaces it explicitly instead of silently
// falling through, leaving the state unchanged.
type ErrUnknownSubStep struct {
	Step    Step
	SubStep SubStep
}

func (e *ErrUnknownSubStep) Error() string {
	return fmt.Sprintf("unknown sub-step %q for step %q", e.SubStep, e.Step)
}
