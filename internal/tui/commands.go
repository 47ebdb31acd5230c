package tui

import (
	"context"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/mythchaser/internal/claimtext"
	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/history"
	"github.com/csheth/mythchaser/internal/session"
	"github.com/csheth/mythchaser/internal/staging"
)

func submitJob(client classify.Client, effect session.SubmitEffect) jobRunner {
	prompt := effect.Prompt
	files := append(staging.Collection(nil), effect.Files...)
	return func(ctx context.Context) (tea.Msg, error) {
		result, err := client.Submit(ctx, prompt, files)
		return submissionResultMsg{result: result, err: err}, err
	}
}

func importClaimJob(path string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		text, err := claimtext.Load(path)
		return claimImportedMsg{path: path, text: text, err: err}, err
	}
}

func saveHistoryJob(path string, entries []history.Entry) jobRunner {
	toPersist := append([]history.Entry(nil), entries...)
	return func(context.Context) (tea.Msg, error) {
		if err := history.Save(path, toPersist); err != nil {
			return historySavedMsg{path: path, err: err}, err
		}
		return historySavedMsg{path: path, count: len(toPersist)}, nil
	}
}

func statFilesCmd(paths []string, source intakeSource, text string) tea.Cmd {
	toStat := append([]string(nil), paths...)
	return func() tea.Msg {
		files, skipped := staging.StatAll(toStat)
		return filesStatedMsg{source: source, files: files, skipped: skipped, text: text}
	}
}

func waitForDrop(source DropSource) tea.Cmd {
	if source == nil {
		return nil
	}
	events := source.Events()
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return dropZoneMsg{event: event}
	}
}

// pastedPaths returns the paths in a paste when every token looks like one.
// Terminals paste the paths of files dragged onto the window.
func pastedPaths(text string) []string {
	paths := staging.ParsePaths(text)
	if len(paths) == 0 {
		return nil
	}
	for _, path := range paths {
		if !strings.ContainsRune(path, os.PathSeparator) && !strings.ContainsRune(path, '/') {
			return nil
		}
	}
	return paths
}
