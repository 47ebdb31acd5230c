package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/mythchaser/internal/claimtext"
	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/dropzone"
	"github.com/csheth/mythchaser/internal/history"
	"github.com/csheth/mythchaser/internal/session"
	"github.com/csheth/mythchaser/internal/staging"
)

type model struct {
	config Config
	logger *zap.Logger
	keys   keyMap
	layout pageLayout
	jobs   *jobBus
	state  session.State

	composer textarea.Model
	spinner  spinner.Model
	picker   filepicker.Model

	pickerOpen  bool
	pickerMode  pickerMode
	historyOpen bool
	running     map[string]jobInfo
	// pending is the claim being checked, kept for the history entry.
	pending     *session.SubmitEffect
	infoMessage string
	// noticeMessage reports non-blocking problems such as skipped files.
	noticeMessage string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config, logger *zap.Logger) (tea.Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Client == nil {
		client, err := classify.New(classify.Config{Logger: logger})
		if err != nil {
			return nil, err
		}
		config.Client = client
	}
	if config.History == nil {
		recent, err := history.NewRecent(history.DefaultSize)
		if err != nil {
			return nil, err
		}
		config.History = recent
	}

	composer := textarea.New()
	composer.Placeholder = composerHint
	composer.ShowLineNumbers = false
	composer.CharLimit = claimtext.MaxChars
	composer.SetHeight(composerRows)
	composer.SetWidth(72)
	composer.KeyMap.InsertNewline = newKeyMap().Newline
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:      config,
		logger:      logger.Named("tui"),
		keys:        newKeyMap(),
		layout:      newPageLayout(),
		jobs:        newJobBus(config.Context, logger),
		state:       session.New(),
		composer:    composer,
		spinner:     spin,
		picker:      newPicker(config.StartDir, pickerAttach),
		running:     map[string]jobInfo{},
		infoMessage: fmt.Sprintf("Checking claims against %s", config.Client.Endpoint()),
	}, nil
}

func newPicker(dir string, mode pickerMode) filepicker.Model {
	picker := filepicker.New()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	picker.CurrentDirectory = dir
	picker.ShowHidden = false
	picker.DirAllowed = false
	picker.FileAllowed = true
	if mode == pickerClaim {
		picker.AllowedTypes = claimtext.Extensions()
	} else {
		picker.AllowedTypes = staging.AcceptedExtensions()
	}
	return picker
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if path := strings.TrimSpace(m.config.ClaimFile); path != "" {
		cmds = append(cmds, m.jobs.Start(jobKindImport, importClaimJob(path)))
	}
	if m.config.DropZone != nil {
		cmds = append(cmds, waitForDrop(m.config.DropZone))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.composer.SetWidth(m.layout.contentWidth - 4)
		m.picker.Height = m.layout.pickerHeight
		return m, m.dispatch(session.SetDropTarget{Rect: m.layout.dropTarget()})
	case spinner.TickMsg:
		if !m.state.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if n := m.jobs.Active(); n > 0 {
				m.logger.Info("quitting with jobs in flight", zap.Int("jobs", n))
			}
			m.jobs.CancelAll()
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case jobStartedMsg:
		m.running[msg.job.ID] = msg.job
		return m, nil
	case jobFinishedMsg:
		delete(m.running, msg.job.ID)
		if msg.payload == nil {
			return m, nil
		}
		return m.Update(msg.payload)
	case submissionResultMsg:
		return m, m.handleSubmissionResult(msg)
	case filesStatedMsg:
		return m, m.handleFilesStated(msg)
	case claimImportedMsg:
		if msg.err != nil {
			m.logger.Warn("claim import failed", zap.String("path", msg.path), zap.Error(msg.err))
			m.noticeMessage = fmt.Sprintf("Could not import claim: %v", msg.err)
			return m, nil
		}
		m.composer.SetValue(msg.text)
		m.noticeMessage = ""
		m.infoMessage = fmt.Sprintf("Imported claim from %s", msg.path)
		return m, m.dispatch(session.PromptChanged{Text: m.composer.Value()})
	case historySavedMsg:
		if msg.err != nil {
			m.logger.Warn("history export failed", zap.String("path", msg.path), zap.Error(msg.err))
			m.noticeMessage = fmt.Sprintf("History export failed: %v", msg.err)
		}
		return m, nil
	case dropZoneMsg:
		return m, m.handleDropZone(msg.event)
	}

	if m.pickerOpen {
		return m, m.updatePicker(msg)
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// dispatch is the only place session state changes.
func (m *model) dispatch(ev session.Event) tea.Cmd {
	next, effect := session.Reduce(m.state, ev)
	m.state = next
	m.syncComposer()
	if effect == nil {
		return nil
	}
	switch eff := effect.(type) {
	case session.SubmitEffect:
		m.pending = &eff
		m.logger.Info("submitting claim",
			zap.Int("files", len(eff.Files)),
			zap.Int("prompt_chars", len(eff.Prompt)),
		)
		return tea.Batch(m.jobs.Start(jobKindSubmit, submitJob(m.config.Client, eff)), m.spinner.Tick)
	}
	return nil
}

func (m *model) dispatchAll(events ...session.Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		if cmd := m.dispatch(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// syncComposer keeps the composer disabled while a check is running or an overlay owns input.
func (m *model) syncComposer() {
	busy := m.state.InFlight() || m.state.Alert != "" || m.state.ShowFileList || m.pickerOpen || m.historyOpen
	if busy {
		m.composer.Blur()
		return
	}
	if !m.composer.Focused() {
		m.composer.Focus()
	}
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.state.Alert != "":
		if key.Matches(msg, m.keys.Dismiss) {
			return m.dispatch(session.DismissAlert{})
		}
		return nil
	case m.pickerOpen:
		if key.Matches(msg, m.keys.Close) {
			m.closePicker()
			return nil
		}
		return m.updatePicker(msg)
	case m.state.ShowFileList:
		return m.handleFileListKey(msg)
	case m.historyOpen:
		if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.History) {
			m.historyOpen = false
			m.syncComposer()
		}
		return nil
	}

	if msg.Paste {
		if paths := pastedPaths(string(msg.Runes)); len(paths) > 0 {
			m.logger.Debug("paste looks like dropped files", zap.Int("paths", len(paths)))
			m.dispatch(session.DragEnter{})
			return statFilesCmd(paths, sourcePaste, string(msg.Runes))
		}
	}

	switch {
	case m.state.Dragging && key.Matches(msg, m.keys.Close):
		return m.dispatch(session.DragLeave{X: -1, Y: -1})
	case key.Matches(msg, m.keys.Submit):
		return m.dispatch(session.Submit{})
	case key.Matches(msg, m.keys.Attach):
		return m.openPicker(pickerAttach)
	case key.Matches(msg, m.keys.ImportClaim):
		return m.openPicker(pickerClaim)
	case key.Matches(msg, m.keys.FileList):
		if m.state.FileCount() == 0 {
			m.noticeMessage = "No files selected yet. Press Ctrl+O to attach one."
			return nil
		}
		return m.dispatch(session.ToggleFileList{})
	case key.Matches(msg, m.keys.History):
		m.historyOpen = true
		m.syncComposer()
		return nil
	}
	return m.updateComposer(msg)
}

func (m *model) updateComposer(msg tea.KeyMsg) tea.Cmd {
	if m.state.InFlight() {
		return nil
	}
	before := m.composer.Value()
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	if after := m.composer.Value(); after != before {
		return tea.Batch(cmd, m.dispatch(session.PromptChanged{Text: after}))
	}
	return cmd
}

func (m *model) handleFileListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.FileList):
		return m.dispatch(session.CloseFileList{})
	case key.Matches(msg, m.keys.Up):
		return m.dispatch(session.MoveFileCursor{Delta: -1})
	case key.Matches(msg, m.keys.Down):
		return m.dispatch(session.MoveFileCursor{Delta: 1})
	case key.Matches(msg, m.keys.Remove):
		index := m.state.FileCursor
		if index >= 0 && index < m.state.FileCount() {
			m.logger.Debug("removing staged file", zap.String("name", m.state.Files[index].Name))
		}
		return m.dispatch(session.RemoveFile{Index: index})
	}
	return nil
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.state.Dragging || msg.Type != tea.MouseMotion {
		return nil
	}
	if m.state.DropTarget.Contains(msg.X, msg.Y) {
		return m.dispatch(session.DragOver{})
	}
	return m.dispatch(session.DragLeave{X: msg.X, Y: msg.Y})
}

func (m *model) openPicker(mode pickerMode) tea.Cmd {
	dir := m.picker.CurrentDirectory
	m.picker = newPicker(dir, mode)
	m.picker.Height = m.layout.pickerHeight
	m.pickerMode = mode
	m.pickerOpen = true
	m.syncComposer()
	return m.picker.Init()
}

func (m *model) closePicker() {
	m.pickerOpen = false
	m.syncComposer()
}

func (m *model) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.closePicker()
		if m.pickerMode == pickerClaim {
			return tea.Batch(cmd, m.jobs.Start(jobKindImport, importClaimJob(path)))
		}
		return tea.Batch(cmd, statFilesCmd([]string{path}, sourcePicker, ""))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.noticeMessage = fmt.Sprintf("%s is not a supported file type.", path)
	}
	return cmd
}

func (m *model) handleFilesStated(msg filesStatedMsg) tea.Cmd {
	for _, err := range msg.skipped {
		m.logger.Warn("skipped file", zap.String("source", msg.source.String()), zap.Error(err))
	}
	if msg.source == sourcePaste && len(msg.files) == 0 {
		m.composer.InsertString(msg.text)
		return m.dispatchAll(session.DragLeave{X: -1, Y: -1}, session.PromptChanged{Text: m.composer.Value()})
	}

	before := m.state.FileCount()
	var cmd tea.Cmd
	if msg.source == sourcePicker {
		cmd = m.dispatch(session.FilesSelected{Files: msg.files})
	} else {
		cmd = m.dispatch(session.FilesDropped{Files: msg.files})
	}
	added := m.state.FileCount() - before
	rejected := len(msg.files) - len(staging.Filter(msg.files)) + len(msg.skipped)
	m.logger.Info("files staged",
		zap.String("source", msg.source.String()),
		zap.Int("added", added),
		zap.Int("rejected", rejected),
		zap.Int("total", m.state.FileCount()),
	)
	switch {
	case rejected > 0:
		m.noticeMessage = fmt.Sprintf("Skipped %d file(s): only images and audio can be attached.", rejected)
	default:
		m.noticeMessage = ""
	}
	return cmd
}

func (m *model) handleDropZone(event dropzone.Event) tea.Cmd {
	next := waitForDrop(m.config.DropZone)
	switch event.Kind {
	case dropzone.Incoming:
		return tea.Batch(m.dispatch(session.DragEnter{}), next)
	case dropzone.Settled:
		if len(event.Paths) == 0 {
			return tea.Batch(m.dispatch(session.DragLeave{X: -1, Y: -1}), next)
		}
		return tea.Batch(statFilesCmd(event.Paths, sourceDrop, ""), next)
	}
	return next
}

func (m *model) handleSubmissionResult(msg submissionResultMsg) tea.Cmd {
	pending := m.pending
	m.pending = nil
	if msg.err != nil {
		var transport *classify.TransportError
		if errors.As(msg.err, &transport) {
			m.logger.Warn("submission failed", zap.Int("status", transport.Status), zap.Error(msg.err))
		} else {
			m.logger.Warn("submission failed", zap.Error(msg.err))
		}
		return m.dispatch(session.SubmissionFailed{Err: msg.err})
	}

	m.logger.Info("submission finished", zap.String("kind", msg.result.Kind.String()))
	cmd := m.dispatch(session.SubmissionSucceeded{Result: msg.result})
	if pending == nil {
		return cmd
	}
	entry := history.NewEntry(pending.Prompt, pending.Files, msg.result)
	m.config.History.Add(entry)
	if m.config.HistoryFile == "" {
		return cmd
	}
	return tea.Batch(cmd, m.jobs.Start(jobKindHistory, saveHistoryJob(m.config.HistoryFile, []history.Entry{entry})))
}
