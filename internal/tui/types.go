package tui

import (
	"context"

	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/dropzone"
	"github.com/csheth/mythchaser/internal/history"
	"github.com/csheth/mythchaser/internal/staging"
)

const (
	heroTitle         = "MYTH CHASER"
	heroTagline       = "Anti-scam and myth-busting utility powered by AI"
	composerHint      = "What fact do you want to check?"
	loadingTitle      = "Analyzing your query..."
	loadingSubtitle   = "This may take a moment"
	dragOverlayTitle  = "Drop files to attach"
	responseLabel     = "Response:"
	minContentWidth   = 40
	horizontalPadding = 4
	composerRows      = 4
)

type pickerMode int

const (
	pickerAttach pickerMode = iota
	pickerClaim
)

type intakeSource int

const (
	sourcePicker intakeSource = iota
	sourceDrop
	sourcePaste
)

func (s intakeSource) String() string {
	switch s {
	case sourcePicker:
		return "picker"
	case sourceDrop:
		return "drop"
	default:
		return "paste"
	}
}

type submissionResultMsg struct {
	result classify.Result
	err    error
}

type filesStatedMsg struct {
	source  intakeSource
	files   []staging.RawFile
	skipped []error
	// text is the original paste, typed into the composer when no file was found.
	text string
}

type claimImportedMsg struct {
	path string
	text string
	err  error
}

type historySavedMsg struct {
	path  string
	count int
	err   error
}

type dropZoneMsg struct {
	event dropzone.Event
}

// DropSource feeds drop-folder events into the program.
type DropSource interface {
	Events() <-chan dropzone.Event
	Dir() string
}

// Config wires runtime options into the TUI program.
type Config struct {
	Client      classify.Client
	History     *history.Recent
	HistoryFile string
	DropZone    DropSource
	// ClaimFile is imported into the composer on start.
	ClaimFile string
	// StartDir is where the file picker opens.
	StartDir string
	// Context bounds background jobs; quitting cancels whatever is left.
	Context context.Context
}
