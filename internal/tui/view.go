package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/staging"
	"github.com/csheth/mythchaser/internal/verdict"
)

func (m *model) View() string {
	switch {
	case m.state.Alert != "":
		return m.overlay(m.alertView())
	case m.pickerOpen:
		return m.overlay(m.pickerView())
	case m.state.ShowFileList:
		return m.overlay(m.fileListView())
	case m.state.Dragging:
		return m.overlay(m.dragView())
	case m.historyOpen:
		return m.overlay(m.historyView())
	}
	return joinNonEmpty([]string{
		m.heroView(),
		m.composerPanel(),
		m.uploadControlsView(),
		m.resultView(),
		m.statusLine(),
	})
}

// overlay centres a box in the window, or stacks it under the hero before the first resize.
func (m *model) overlay(box string) string {
	if !m.layout.sized() {
		return joinNonEmpty([]string{m.heroView(), box})
	}
	return lipgloss.Place(m.layout.windowWidth, m.layout.windowHeight, lipgloss.Center, lipgloss.Center, box)
}

func (m *model) heroView() string {
	caption := heroTitleStyle.Render(heroTitle) + "  " + taglineStyle.Render(heroTagline)
	if m.layout.sized() && m.layout.windowWidth < lipgloss.Width(logoArtLines[0])+4 {
		return caption
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), caption)
}

func (m *model) composerPanel() string {
	box := composerBoxStyle
	if m.state.InFlight() {
		box = composerBusyStyle
	}
	return joinNonEmpty([]string{
		box.Render(m.composer.View()),
		m.keyLegend(m.keys.composerHints()),
	})
}

func (m *model) uploadControlsView() string {
	lines := []string{sectionHeaderStyle.Render("Attachments")}
	count := m.state.FileCount()
	if count == 0 {
		lines = append(lines, helperStyle.Render("Attach screenshots or voice notes: Ctrl+O to browse, or drag files onto the window."))
	} else {
		lines = append(lines, fmt.Sprintf("%d file(s) selected", count)+helperStyle.Render("  (Ctrl+L to review)"))
	}
	if m.config.DropZone != nil {
		lines = append(lines, helperStyle.Render("Drop folder: "+m.config.DropZone.Dir()))
	}
	return strings.Join(lines, "\n")
}

func (m *model) resultView() string {
	if m.state.InFlight() {
		return lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%s %s", m.spinner.View(), sectionHeaderStyle.Render(loadingTitle)),
			helperStyle.Render(loadingSubtitle),
		)
	}
	result := m.state.Result
	if result == nil {
		return ""
	}
	if result.Kind == classify.KindSuccess && strings.TrimSpace(result.Verdict) != "" {
		return m.verdictView(*result)
	}
	wrap := m.layout.wrapWidth(4)
	body := result.Answer()
	if result.Kind == classify.KindSuccess {
		body = result.Explanation
	}
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render(responseLabel),
		indentMultiline(wordwrap.String(body, wrap), "  "),
	})
}

func (m *model) verdictView(result classify.Result) string {
	label := verdict.Label(result.Verdict)
	color := toneColor(verdict.ToneOf(result.Verdict))
	wrap := m.layout.wrapWidth(8)

	parts := []string{verdictLabelStyle.Copy().Foreground(color).Render(label)}
	if explanation := strings.TrimSpace(result.Explanation); explanation != "" {
		parts = append(parts, wordwrap.String(result.Explanation, wrap))
	}
	if steps := verdict.Guidance(result.Verdict); len(steps) > 0 {
		lines := []string{sectionHeaderStyle.Render("What to do next")}
		for _, step := range steps {
			lines = append(lines, " • "+step.Title)
			lines = append(lines, indentMultiline(helperStyle.Render(wordwrap.String(step.Description, wrap-4)), "   "))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return verdictBoxStyle.Copy().BorderForeground(color).Render(joinNonEmpty(parts))
}

func (m *model) statusLine() string {
	var lines []string
	if m.noticeMessage != "" {
		lines = append(lines, errorStyle.Render(m.noticeMessage))
	}
	if m.state.LastError != "" && !m.state.InFlight() {
		lines = append(lines, errorStyle.Render("Last check failed: "+m.state.LastError))
	}
	stats := []string{m.infoMessage}
	if m.config.History.Len() > 0 {
		stats = append(stats, fmt.Sprintf("History %d", m.config.History.Len()))
	}
	stats = append(stats, m.jobStatusBadges()...)
	lines = append(lines, statusBarStyle.Render(strings.Join(stats, "  •  ")))
	return strings.Join(lines, "\n")
}

func (m *model) jobStatusBadges() []string {
	if len(m.running) == 0 {
		return nil
	}
	badges := make([]string, 0, len(m.running))
	for _, job := range m.running {
		badges = append(badges, fmt.Sprintf("%s…", job.Kind))
	}
	sort.Strings(badges)
	return badges
}

func (m *model) alertView() string {
	return alertBoxStyle.Render(joinNonEmpty([]string{
		errorStyle.Copy().Bold(true).Render(m.state.Alert),
		helperStyle.Render("Press Enter to continue."),
	}))
}

func (m *model) dragView() string {
	return dragBoxStyle.Render(joinNonEmpty([]string{
		heroTitleStyle.Render(dragOverlayTitle),
		"Images and audio only",
	}))
}

func (m *model) pickerView() string {
	title := "Attach a file"
	hint := "Images (.png .jpg .jpeg .gif .webp) and audio (.mp3 .wav .m4a .ogg)"
	if m.pickerMode == pickerClaim {
		title = "Import a claim"
		hint = "Text (.txt .md) or PDF documents"
	}
	return modalBoxStyle.Copy().Width(m.layout.modalWidth).Render(joinNonEmpty([]string{
		sectionHeaderStyle.Render(title),
		helperStyle.Render(hint),
		helperStyle.Render(m.picker.CurrentDirectory),
		m.picker.View(),
		helperStyle.Render("Enter: select • Esc: cancel"),
	}))
}

func (m *model) fileListView() string {
	files := m.state.Files
	lines := []string{sectionHeaderStyle.Render(fmt.Sprintf("%d file(s) ready to upload", len(files)))}
	nameWidth := 0
	for _, file := range files {
		if w := lipgloss.Width(file.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for idx, file := range files {
		row := fmt.Sprintf("%d. %-*s  %-5s  %10s", idx+1, nameWidth, file.Name, file.Category(), staging.FormatKB(file.Size))
		if idx == m.state.FileCursor {
			lines = append(lines, currentLineStyle.Render("▸ "+row))
		} else {
			lines = append(lines, "  "+row)
		}
	}
	lines = append(lines, "", helperStyle.Render("Total: "+staging.FormatKB(files.TotalSize())))
	return modalBoxStyle.Render(joinNonEmpty([]string{
		strings.Join(lines, "\n"),
		m.keyLegend(m.keys.fileListHints()),
	}))
}

func (m *model) historyView() string {
	lines := []string{sectionHeaderStyle.Render("Recent checks")}
	entries := m.config.History.Entries()
	if len(entries) == 0 {
		lines = append(lines, helperStyle.Render("Nothing checked yet this session."))
	}
	for _, entry := range entries {
		label := entry.Verdict
		if label == "" {
			label = entry.Kind
		}
		label = verdict.Label(label)
		row := fmt.Sprintf("%s  %s", entry.CheckedAt.Local().Format("15:04"), previewText(entry.Claim, 48))
		if n := len(entry.Files); n > 0 {
			row += helperStyle.Render(fmt.Sprintf("  (%d file(s))", n))
		}
		tag := verdictLabelStyle.Copy().Foreground(toneColor(verdict.ToneOf(entry.Verdict))).Render(fmt.Sprintf("[%s]", label))
		lines = append(lines, tag+" "+row)
	}
	if m.config.HistoryFile != "" {
		lines = append(lines, "", helperStyle.Render("Exported to "+m.config.HistoryFile))
	}
	lines = append(lines, "", helperStyle.Render("Esc: close"))
	return modalBoxStyle.Copy().Width(m.layout.modalWidth).Render(strings.Join(lines, "\n"))
}

func (m *model) keyLegend(bindings []key.Binding) string {
	cells := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(help.Key), keyDescStyle.Render(" "+help.Desc+" ")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderLogo() string {
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
