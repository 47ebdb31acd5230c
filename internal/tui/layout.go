package tui

import (
	"strings"

	"github.com/csheth/mythchaser/internal/staging"
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	contentWidth int
	modalWidth   int
	pickerHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth: 76,
		modalWidth:   60,
		pickerHeight: 10,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - horizontalPadding
	if inner < minContentWidth {
		inner = minContentWidth
	}
	l.contentWidth = inner
	l.modalWidth = inner * 3 / 4
	if l.modalWidth < minContentWidth {
		l.modalWidth = minContentWidth
	}
	const chrome = 10
	l.pickerHeight = height - chrome
	if l.pickerHeight < 5 {
		l.pickerHeight = 5
	}
}

// sized reports whether a window size has been received.
func (l pageLayout) sized() bool {
	return l.windowWidth > 0 && l.windowHeight > 0
}

// dropTarget is the window minus its outer cell ring. Moving the pointer onto the
// border while dragging counts as leaving the window.
func (l pageLayout) dropTarget() staging.Rect {
	if l.windowWidth < 3 || l.windowHeight < 3 {
		return staging.Rect{}
	}
	return staging.Rect{Left: 1, Top: 1, Right: l.windowWidth - 2, Bottom: l.windowHeight - 2}
}

func (l pageLayout) wrapWidth(padding int) int {
	width := l.contentWidth
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func previewText(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
