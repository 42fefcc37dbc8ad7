package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab       key.Binding
	ShiftTab  key.Binding
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Help      key.Binding
	StartStop key.Binding
	Pomodoro  key.Binding
	Add       key.Binding
	Copy      key.Binding
	Reminder  key.Binding
	SaveClip  key.Binding
	Cite      key.Binding
	Dismiss   key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit},
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Help, k.StartStop, k.Pomodoro, k.Add, k.Copy},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		StartStop: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start/stop"),
		),
		Pomodoro: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pomodoro"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Reminder: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reminder"),
		),
		SaveClip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "save copy as note"),
		),
		Cite: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cite copy"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss copy"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
