package session

import (
	"errors"
	"strings"

	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/staging"
)

// Reduce applies ev to s. Merges and removals build a new file slice and leave s.Files
// untouched; other events carry the slice over as is. The effect is nil unless the
// caller has work to start.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case PromptChanged:
		s.Prompt = ev.Text
	case FilesSelected:
		s.Files = staging.Merge(s.Files, staging.Filter(ev.Files))
	case FilesDropped:
		s.Dragging = false
		s.Files = staging.Merge(s.Files, staging.Filter(ev.Files))
	case RemoveFile:
		s = removeFile(s, ev.Index)
	case ToggleFileList:
		if len(s.Files) > 0 {
			s.ShowFileList = !s.ShowFileList
		}
	case CloseFileList:
		s.ShowFileList = false
	case MoveFileCursor:
		s.FileCursor = clampCursor(s.FileCursor+ev.Delta, len(s.Files))
	case DragEnter, DragOver:
		s.Dragging = true
	case DragLeave:
		if s.DropTarget.Empty() || !s.DropTarget.Contains(ev.X, ev.Y) {
			s.Dragging = false
		}
	case SetDropTarget:
		s.DropTarget = ev.Rect
	case Submit:
		return submit(s)
	case SubmissionSucceeded:
		if !s.InFlight() {
			return s, nil
		}
		result := ev.Result
		s.Phase = PhaseIdle
		s.Result = &result
		s.LastError = ""
	case SubmissionFailed:
		if !s.InFlight() {
			return s, nil
		}
		s.Phase = PhaseIdle
		s.Result = nil
		s.Alert = failureAlert(ev.Err)
		if ev.Err != nil {
			s.LastError = ev.Err.Error()
		}
	case DismissAlert:
		s.Alert = ""
	}
	return s, nil
}

func submit(s State) (State, Effect) {
	if s.InFlight() {
		return s, nil
	}
	if strings.TrimSpace(s.Prompt) == "" {
		s.Alert = EmptyPromptAlert
		return s, nil
	}
	s.Phase = PhaseSubmitting
	s.Result = nil
	s.LastError = ""
	return s, SubmitEffect{
		Prompt: s.Prompt,
		Files:  append(staging.Collection(nil), s.Files...),
	}
}

func removeFile(s State, index int) State {
	files, err := staging.RemoveAt(s.Files, index)
	if err != nil {
		return s
	}
	s.Files = files
	if len(files) == 0 {
		s.ShowFileList = false
	}
	s.FileCursor = clampCursor(s.FileCursor, len(files))
	return s
}

func clampCursor(cursor, length int) int {
	if length == 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

func failureAlert(err error) string {
	var validation *classify.ValidationError
	if errors.As(err, &validation) && validation.Message != "" {
		return validation.Message
	}
	return FailureAlert
}
