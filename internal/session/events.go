package session

import (
	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/staging"
)

// Event is anything that can change State.
type Event interface {
	isEvent()
}

// PromptChanged replaces the claim text.
type PromptChanged struct{ Text string }

// FilesSelected carries a batch chosen through the file picker.
type FilesSelected struct{ Files []staging.RawFile }

// FilesDropped carries a batch dropped onto the window (pasted paths or the drop folder).
type FilesDropped struct{ Files []staging.RawFile }

// RemoveFile removes the staged file at Index.
type RemoveFile struct{ Index int }

// ToggleFileList flips the file list modal when files are staged.
type ToggleFileList struct{}

// CloseFileList hides the file list modal.
type CloseFileList struct{}

// MoveFileCursor moves the file list selection by Delta rows.
type MoveFileCursor struct{ Delta int }

// DragEnter marks the start of a drag over the window.
type DragEnter struct{}

// DragOver repeats while a drag hovers over the window.
type DragOver struct{}

// DragLeave reports the pointer position when a drag leaves a region.
type DragLeave struct{ X, Y int }

// SetDropTarget records the drop target's bounds after a layout change.
type SetDropTarget struct{ Rect staging.Rect }

// Submit asks to send the current claim.
type Submit struct{}

// SubmissionSucceeded completes a SubmitEffect with a mapped response.
type SubmissionSucceeded struct{ Result classify.Result }

// SubmissionFailed completes a SubmitEffect with an error.
type SubmissionFailed struct{ Err error }

// DismissAlert clears the blocking alert.
type DismissAlert struct{}

func (PromptChanged) isEvent()       {}
func (FilesSelected) isEvent()       {}
func (FilesDropped) isEvent()        {}
func (RemoveFile) isEvent()          {}
func (ToggleFileList) isEvent()      {}
func (CloseFileList) isEvent()       {}
func (MoveFileCursor) isEvent()      {}
func (DragEnter) isEvent()           {}
func (DragOver) isEvent()            {}
func (DragLeave) isEvent()           {}
func (SetDropTarget) isEvent()       {}
func (Submit) isEvent()              {}
func (SubmissionSucceeded) isEvent() {}
func (SubmissionFailed) isEvent()    {}
func (DismissAlert) isEvent()        {}
