// Package session owns the client's screen state and the one function allowed to change it.
//
// Every user or network occurrence is an Event. Reduce applies it to a State and may hand
// back an Effect for the caller to run (today only a submission). Nothing here performs
// I/O, so the whole interaction model is testable without a terminal.
package session

import (
	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/staging"
)

const (
	// EmptyPromptAlert is raised when a submit is attempted with a blank claim.
	EmptyPromptAlert = "Please enter a prompt."
	// FailureAlert is raised when a submission fails for any non-validation reason.
	FailureAlert = "Something went wrong!"
)

// Phase is the submission state machine: Idle → Submitting → Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

func (p Phase) String() string {
	if p == PhaseSubmitting {
		return "submitting"
	}
	return "idle"
}

// State is everything the screen renders from.
type State struct {
	Prompt       string
	Files        staging.Collection
	Dragging     bool
	ShowFileList bool
	FileCursor   int
	Phase        Phase
	// Result is the last completed answer; nil while submitting and after a failure.
	Result *classify.Result
	// Alert is a blocking notice the user must dismiss.
	Alert string
	// LastError keeps the failure cause for the status line and logs.
	LastError  string
	DropTarget staging.Rect
}

// New returns the start-of-session state: empty prompt, nothing staged, all flags off.
func New() State {
	return State{}
}

// InFlight reports whether a submission is outstanding.
func (s State) InFlight() bool {
	return s.Phase == PhaseSubmitting
}

// FileCount is the number of staged attachments.
func (s State) FileCount() int {
	return len(s.Files)
}

// Effect is work Reduce asks its caller to perform.
type Effect interface {
	isEffect()
}

// SubmitEffect asks the caller to send the claim. Its completion must be fed back as
// SubmissionSucceeded or SubmissionFailed.
type SubmitEffect struct {
	Prompt string
	Files  staging.Collection
}

func (SubmitEffect) isEffect() {}
