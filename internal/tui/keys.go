package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Submit      key.Binding
	Newline     key.Binding
	Attach      key.Binding
	ImportClaim key.Binding
	FileList    key.Binding
	History     key.Binding
	Up          key.Binding
	Down        key.Binding
	Remove      key.Binding
	Close       key.Binding
	Dismiss     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "quit")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "check claim")),
		Newline:     key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"), key.WithHelp("Ctrl+J", "newline")),
		Attach:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "attach")),
		ImportClaim: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("Ctrl+T", "import claim")),
		FileList:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("Ctrl+L", "files")),
		History:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("Ctrl+G", "history")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Remove:      key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "remove")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "close")),
		Dismiss:     key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("Enter", "dismiss")),
	}
}

func (k keyMap) composerHints() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.Attach, k.FileList, k.ImportClaim, k.History, k.Quit}
}

func (k keyMap) fileListHints() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Remove, k.Close}
}
