package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send     key.Binding
	Newline  key.Binding
	Examples key.Binding
	Up       key.Binding
	Down     key.Binding
	Back     key.Binding
	Theme    key.Binding
	Clear    key.Binding
	Scroll   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "new line"),
		),
		Examples: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "examples"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "shift+tab"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc", "back to input"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear chat"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// inputKeys 是输入框聚焦时显示的帮助
type inputKeys keyMap

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Newline, k.Examples, k.Theme, k.Clear, k.Quit}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline, k.Examples},
		{k.Theme, k.Clear, k.Scroll, k.Quit},
	}
}

// suggestionKeys 是浏览示例问题时显示的帮助
type suggestionKeys keyMap

func (k suggestionKeys) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down,
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/1-6", "ask")),
		k.Back, k.Quit,
	}
}

func (k suggestionKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
