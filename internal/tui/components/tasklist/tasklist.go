package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/unidash/internal/models"
)

type AddTaskMsg struct{}

type ToggleTaskMsg struct {
	ID int64
}

type SnoozeTaskMsg struct {
	ID int64
}

type DeleteTaskMsg struct {
	ID int64
}

type EditNoteMsg struct {
	Task models.Task
}

type TrackTaskMsg struct {
	Task models.Task
}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	check := "[ ]"
	if i.Task.Completed {
		check = "[x]"
	}
	return check + " " + i.Task.Title
}

func (i Item) Description() string {
	return fmt.Sprintf("due %s | %s | %s", i.Task.Due, i.Task.Priority, i.Task.Category)
}

func (i Item) FilterValue() string { return i.Task.Title + " " + string(i.Task.Category) }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Snooze key.Binding
	Delete key.Binding
	Note   key.Binding
	Track  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "done/undo"),
		),
		Snooze: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snooze 1d"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
		Track: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "track time"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.Task, width, height int) Model {
	l := list.New(items(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	extra := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Snooze, keys.Delete, keys.Note, keys.Track}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return Model{list: l, keys: keys}
}

func items(tasks []models.Task) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t}
	}
	return out
}

func (m *Model) SetTasks(tasks []models.Task) {
	m.list.SetItems(items(tasks))
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the highlighted task.
func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

// Filtering reports whether the filter prompt has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddTaskMsg{} }
		}
		if t, ok := m.Selected(); ok {
			switch {
			case key.Matches(msg, m.keys.Toggle):
				return m, func() tea.Msg { return ToggleTaskMsg{ID: t.ID} }
			case key.Matches(msg, m.keys.Snooze):
				return m, func() tea.Msg { return SnoozeTaskMsg{ID: t.ID} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteTaskMsg{ID: t.ID} }
			case key.Matches(msg, m.keys.Note):
				return m, func() tea.Msg { return EditNoteMsg{Task: t} }
			case key.Matches(msg, m.keys.Track):
				return m, func() tea.Msg { return TrackTaskMsg{Task: t} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}
