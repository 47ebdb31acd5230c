package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/mythchaser/internal/claimtext"
	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/dropzone"
	"github.com/csheth/mythchaser/internal/session"
	"github.com/csheth/mythchaser/internal/staging"
)

func typeText(m *model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *model, keyType tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

func stage(m *model, files ...staging.RawFile) {
	m.Update(filesStatedMsg{source: sourcePicker, files: files})
}

func TestComposerStartsFocusedWithPlaceholder(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	if !m.composer.Focused() {
		t.Fatal("composer should start focused")
	}
	if m.composer.Placeholder != composerHint {
		t.Fatalf("placeholder = %q", m.composer.Placeholder)
	}
	view := m.View()
	for _, want := range []string{heroTitle, heroTagline} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestTypingUpdatesPrompt(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	typeText(m, "Is the earth flat?")
	if m.state.Prompt != "Is the earth flat?" {
		t.Fatalf("prompt = %q", m.state.Prompt)
	}
}

func TestEnterSubmitsClaimAndRendersVerdict(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, client)
	typeText(m, "Is the earth flat?")

	if cmd := press(m, tea.KeyEnter); cmd == nil {
		t.Fatal("enter should start the submit job")
	}
	if !m.state.InFlight() {
		t.Fatal("state should be in flight after submit")
	}
	if m.composer.Focused() {
		t.Fatal("composer should be disabled while in flight")
	}
	if !strings.Contains(m.View(), loadingTitle) {
		t.Fatal("loading indicator not shown")
	}
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Fatal("second submit while in flight should be a no-op")
	}

	m.Update(submissionResultMsg{result: classify.Result{
		Kind:        classify.KindSuccess,
		Verdict:     "myth",
		Explanation: "Scientific consensus says the planet is an oblate spheroid.",
	}})

	if m.state.InFlight() {
		t.Fatal("in-flight flag should clear on completion")
	}
	if !m.composer.Focused() {
		t.Fatal("composer should be re-enabled after completion")
	}
	result := m.resultView()
	if !strings.Contains(result, "MYTH") || strings.Contains(result, "myth") {
		t.Fatalf("verdict should render uppercased:\n%s", result)
	}
	if !strings.Contains(result, "Scientific consensus") {
		t.Fatalf("explanation missing:\n%s", result)
	}
	if !strings.Contains(result, "Check the origin") {
		t.Fatalf("guidance missing:\n%s", result)
	}
	if m.config.History.Len() != 1 {
		t.Fatalf("history len = %d, want 1", m.config.History.Len())
	}
	if m.state.Prompt != "Is the earth flat?" {
		t.Fatal("prompt should be kept after a check")
	}
}

func TestWhitespacePromptRaisesAlert(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, client)
	typeText(m, "   ")

	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Fatal("blank prompt should not start a job")
	}
	if m.state.Alert != session.EmptyPromptAlert {
		t.Fatalf("alert = %q", m.state.Alert)
	}
	if !strings.Contains(m.View(), session.EmptyPromptAlert) {
		t.Fatal("alert overlay not rendered")
	}
	if client.calls != 0 {
		t.Fatal("client must not be called")
	}

	press(m, tea.KeyEnter)
	if m.state.Alert != "" {
		t.Fatal("enter should dismiss the alert")
	}
	if !m.composer.Focused() {
		t.Fatal("composer should regain focus after the alert")
	}
}

func TestServerFailureKeepsPromptAndFiles(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	typeText(m, "Free iPhone for the first 100 people")
	stage(m, staging.RawFile{Name: "promo.png", Size: 2048, MIMEType: "image/png"})
	press(m, tea.KeyEnter)

	m.Update(submissionResultMsg{err: &classify.TransportError{Status: 500}})

	if m.state.InFlight() {
		t.Fatal("in-flight flag should clear on failure")
	}
	if m.state.Alert != session.FailureAlert {
		t.Fatalf("alert = %q, want %q", m.state.Alert, session.FailureAlert)
	}
	if m.state.Result != nil {
		t.Fatal("result should be cleared on failure")
	}
	if m.state.FileCount() != 1 || m.composer.Value() != "Free iPhone for the first 100 people" {
		t.Fatal("prompt and files must survive a failure")
	}
	if m.config.History.Len() != 0 {
		t.Fatal("failures are not recorded in history")
	}

	press(m, tea.KeyEsc)
	if !strings.Contains(m.View(), "Last check failed: Upload failed") {
		t.Fatalf("status line should keep the failure cause:\n%s", m.View())
	}
}

func TestErrorResultRendersResponse(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	typeText(m, "I like pizza")
	press(m, tea.KeyEnter)
	m.Update(submissionResultMsg{result: classify.Result{Kind: classify.KindError, Message: "Not a factual claim"}})

	view := m.resultView()
	if !strings.Contains(view, responseLabel) || !strings.Contains(view, "Not a factual claim") {
		t.Fatalf("error result not rendered:\n%s", view)
	}
}

func TestFileListModal(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	if press(m, tea.KeyCtrlL); m.state.ShowFileList {
		t.Fatal("file list should not open without files")
	}

	stage(m,
		staging.RawFile{Name: "a.png", Size: 1024, MIMEType: "image/png"},
		staging.RawFile{Name: "notes.txt", Size: 10, MIMEType: "text/plain"},
		staging.RawFile{Name: "b.mp3", Size: 2048, MIMEType: "audio/mpeg"},
	)
	if m.state.FileCount() != 2 {
		t.Fatalf("file count = %d, want 2", m.state.FileCount())
	}
	if !strings.Contains(m.noticeMessage, "Skipped 1") {
		t.Fatalf("notice = %q", m.noticeMessage)
	}
	if !strings.Contains(m.View(), "2 file(s) selected") {
		t.Fatal("selection counter missing")
	}

	press(m, tea.KeyCtrlL)
	if !m.state.ShowFileList {
		t.Fatal("ctrl+l should open the file list")
	}
	view := m.View()
	for _, want := range []string{"2 file(s) ready to upload", "a.png", "1.0 KB", "audio", "Total: 3.0 KB"} {
		if !strings.Contains(view, want) {
			t.Fatalf("file list missing %q:\n%s", want, view)
		}
	}

	press(m, tea.KeyDown)
	typeText(m, "x")
	if m.state.FileCount() != 1 || m.state.Files[0].Name != "a.png" {
		t.Fatalf("expected b.mp3 removed, got %v", m.state.Files.Names())
	}
	if m.state.Prompt != "" {
		t.Fatal("keys in the file list must not reach the composer")
	}

	typeText(m, "x")
	if m.state.FileCount() != 0 || m.state.ShowFileList {
		t.Fatal("removing the last file should close the modal")
	}
	if !m.composer.Focused() {
		t.Fatal("composer should regain focus after the modal closes")
	}
}

func TestPastedPathsAreDropped(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	path := filepath.Join(t.TempDir(), "forwarded.png")
	if err := os.WriteFile(path, []byte("png!"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path), Paste: true})
	if !m.state.Dragging {
		t.Fatal("paste of paths should show the drag overlay")
	}
	if !strings.Contains(m.View(), dragOverlayTitle) {
		t.Fatal("drag overlay not rendered")
	}
	if cmd == nil {
		t.Fatal("expected stat command")
	}
	m.Update(cmd())

	if m.state.Dragging {
		t.Fatal("drop should clear the drag state")
	}
	if m.state.FileCount() != 1 || m.state.Files[0].MIMEType != "image/png" {
		t.Fatalf("unexpected staged files: %#v", m.state.Files)
	}
	if m.state.Prompt != "" {
		t.Fatal("dropped paths must not be typed into the composer")
	}
}

func TestPastedMissingPathFallsBackToText(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/no/such/file.png"), Paste: true})
	m.Update(cmd())

	if m.state.Dragging {
		t.Fatal("drag state should clear")
	}
	if m.state.Prompt != "/no/such/file.png" {
		t.Fatalf("prompt = %q", m.state.Prompt)
	}
}

func TestPastedTextGoesToComposer(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Drinking hot water cures covid"), Paste: true})
	if m.state.Dragging {
		t.Fatal("plain text paste is not a drop")
	}
	if m.state.Prompt != "Drinking hot water cures covid" {
		t.Fatalf("prompt = %q", m.state.Prompt)
	}
}

func TestMouseLeavingWindowEndsDrag(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(dropZoneMsg{event: dropzone.Event{Kind: dropzone.Incoming}})
	if !m.state.Dragging {
		t.Fatal("incoming drop should start dragging")
	}

	m.Update(tea.MouseMsg{X: 40, Y: 10, Type: tea.MouseMotion})
	if !m.state.Dragging {
		t.Fatal("motion inside the window keeps the drag")
	}
	m.Update(tea.MouseMsg{X: 0, Y: 10, Type: tea.MouseMotion})
	if m.state.Dragging {
		t.Fatal("motion onto the border should end the drag")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.Update(dropZoneMsg{event: dropzone.Event{Kind: dropzone.Incoming}})
	press(m, tea.KeyEsc)
	if m.state.Dragging {
		t.Fatal("esc should cancel the drag overlay")
	}
}

func TestEmptyDropFolderBatchEndsDrag(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.Update(dropZoneMsg{event: dropzone.Event{Kind: dropzone.Incoming}})
	m.Update(dropZoneMsg{event: dropzone.Event{Kind: dropzone.Settled}})
	if m.state.Dragging {
		t.Fatal("empty batch should end the drag")
	}
}

func TestClaimImport(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.Update(claimImportedMsg{path: "claim.txt", text: "Bananas are radioactive."})
	if m.state.Prompt != "Bananas are radioactive." || m.composer.Value() != "Bananas are radioactive." {
		t.Fatalf("imported claim not applied: %q", m.state.Prompt)
	}

	m.Update(claimImportedMsg{path: "bad.pdf", err: errors.New("failed to open pdf")})
	if !strings.Contains(m.noticeMessage, "failed to open pdf") {
		t.Fatalf("notice = %q", m.noticeMessage)
	}
	if m.state.Prompt != "Bananas are radioactive." {
		t.Fatal("failed import must not clear the prompt")
	}
}

func TestJobEnvelopeTracksRunningJobs(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.Update(jobStartedMsg{job: jobInfo{ID: "import-1", Kind: jobKindImport, Status: jobRunning}})
	if !strings.Contains(m.statusLine(), "import…") {
		t.Fatalf("running job badge missing: %s", m.statusLine())
	}

	m.Update(jobFinishedMsg{
		job:     jobInfo{ID: "import-1", Kind: jobKindImport, Status: jobSucceeded},
		payload: claimImportedMsg{path: "claim.txt", text: "Imported"},
	})
	if len(m.running) != 0 {
		t.Fatal("finished job should be removed")
	}
	if m.state.Prompt != "Imported" {
		t.Fatal("envelope payload should be handled")
	}
}

func TestHistoryExportStartsJob(t *testing.T) {
	teaModel, err := New(Config{Client: &fakeClient{}, HistoryFile: filepath.Join(t.TempDir(), "history.json")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	m := teaModel.(*model)
	typeText(m, "claim")
	press(m, tea.KeyEnter)

	_, cmd := m.Update(submissionResultMsg{result: classify.Result{Kind: classify.KindSuccess, Verdict: "FACT"}})
	if cmd == nil {
		t.Fatal("expected history export job")
	}
}

func TestHistoryOverlay(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	typeText(m, "Vaccines cause autism")
	press(m, tea.KeyEnter)
	m.Update(submissionResultMsg{result: classify.Result{Kind: classify.KindSuccess, Verdict: "myth", Explanation: "No."}})

	press(m, tea.KeyCtrlG)
	if !m.historyOpen {
		t.Fatal("ctrl+g should open history")
	}
	view := m.View()
	if !strings.Contains(view, "[MYTH]") || !strings.Contains(view, "Vaccines cause autism") {
		t.Fatalf("history overlay missing entry:\n%s", view)
	}
	press(m, tea.KeyEsc)
	if m.historyOpen || !m.composer.Focused() {
		t.Fatal("esc should close history and refocus the composer")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should quit")
	}
}

func TestCtrlCCancelsJobsInFlight(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	_, run := m.jobs.prepare(jobKindSubmit, func(ctx context.Context) (tea.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	press(m, tea.KeyCtrlC)
	finished := run().(jobFinishedMsg)
	if finished.job.Status != jobCanceled {
		t.Fatalf("status = %s, want canceled", finished.job.Status)
	}
	if m.jobs.Active() != 0 {
		t.Fatal("quit should leave no jobs registered")
	}
}

func TestPickerAllowedTypesFollowMode(t *testing.T) {
	dir := t.TempDir()
	claim := newPicker(dir, pickerClaim)
	if strings.Join(claim.AllowedTypes, " ") != strings.Join(claimtext.Extensions(), " ") {
		t.Fatalf("claim picker types = %v", claim.AllowedTypes)
	}
	attach := newPicker(dir, pickerAttach)
	if strings.Join(attach.AllowedTypes, " ") != strings.Join(staging.AcceptedExtensions(), " ") {
		t.Fatalf("attach picker types = %v", attach.AllowedTypes)
	}
}
