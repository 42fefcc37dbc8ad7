package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/tui/components/tasklist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.taskList.SetSize(max(0, msg.Width-4), max(0, msg.Height-8))
		m.bar.Width = max(10, min(60, msg.Width-8))
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		cmd := m.handleTick()
		if m.engine.Status().Running {
			return m, tea.Batch(cmd, tick(msg.gen))
		}
		return m, cmd

	case resumeMsg:
		if m.engine.Resume() {
			m.status = "Break started"
			return m, m.startTicking()
		}
		return m, nil

	case pollMsg:
		if m.state == StateDashboard {
			m.refreshStaged()
		}
		return m, poll()
	}

	switch m.state {
	case StateForm:
		cmd := m.updateForm(msg)
		return m, cmd
	case StateConfirmDelete:
		m.updateConfirmDelete(msg)
		return m, nil
	}

	if cmd, handled := m.handleTaskMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		passThrough := m.state == StateTasks && m.taskList.Filtering()
		if !passThrough {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Tab):
				m.state = (m.state + 1) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.state = (m.state - 1 + tabCount) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			}
		}

		var cmd tea.Cmd
		switch m.state {
		case StateDashboard:
			cmd = m.updateDashboard(msg)
			return m, cmd
		case StateTimer:
			cmd = m.updateTimer(msg)
			return m, cmd
		case StateCitations:
			cmd = m.updateCitations(msg)
			return m, cmd
		case StateTimetable:
			cmd = m.updateTimetable(msg)
			return m, cmd
		}
	}

	if m.state == StateTasks {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTick advances the timer. A finished work interval schedules the
// break to start after ResumeDelay.
func (m *Model) handleTick() tea.Cmd {
	ev, err := m.engine.Tick(m.ctx)
	if err != nil {
		logger.Warn("Failed to log session", "error", err)
		m.setError(err)
	}
	if ev.Session == nil {
		return nil
	}
	switch ev.Session.Type {
	case models.SessionPomodoro:
		m.status = "Pomodoro complete! Break starts shortly."
	case models.SessionBreak:
		m.status = "Break over. Press p for the next pomodoro."
	}
	if ev.Resume {
		return tea.Tick(constants.ResumeDelay, func(time.Time) tea.Msg { return resumeMsg{} })
	}
	return nil
}

func (m *Model) openForm(form *huh.Form, onSubmit func(m *Model) error) tea.Cmd {
	m.previousState = m.state
	m.state = StateForm
	m.form = form
	m.onSubmit = onSubmit
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		if err := m.onSubmit(m); err != nil {
			m.setError(err)
		}
		m.reload()
		return nil
	case huh.StateAborted:
		m.state = m.previousState
		return nil
	}
	return cmd
}

func (m *Model) updateConfirmDelete(msg tea.Msg) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		if err := m.svc.DeleteTask(m.ctx, m.taskToDeleteID); err != nil {
			m.setError(err)
		} else {
			m.status = "Task deleted"
		}
		m.reload()
		m.state = StateTasks
	case key.Matches(km, m.keys.Cancel):
		m.state = StateTasks
	}
}

func (m *Model) handleTaskMessages(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		fm := &TaskFormModel{
			Due:      m.now().AddDate(0, 0, 7).Format(constants.DateFormat),
			Priority: models.PriorityMedium,
			Category: models.CategoryWork,
		}
		m.taskForm = fm
		return m.openForm(NewTaskForm(fm), func(m *Model) error {
			t, err := m.svc.AddTask(m.ctx, models.Task{
				Title:    fm.Title,
				Due:      fm.Due,
				Priority: fm.Priority,
				Category: fm.Category,
			})
			if err == nil {
				m.status = "Added " + t.Title
			}
			return err
		}), true

	case tasklist.ToggleTaskMsg:
		if _, err := m.svc.ToggleTask(m.ctx, msg.ID); err != nil {
			m.setError(err)
		}
		m.reload()
		return nil, true

	case tasklist.SnoozeTaskMsg:
		t, err := m.svc.SnoozeTask(m.ctx, msg.ID)
		if err != nil {
			m.setError(err)
		} else {
			m.status = fmt.Sprintf("%s snoozed to %s", t.Title, t.Due)
		}
		m.reload()
		return nil, true

	case tasklist.DeleteTaskMsg:
		m.taskToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return nil, true

	case tasklist.EditNoteMsg:
		fm := &NoteFormModel{TaskID: msg.Task.ID, Progress: "0"}
		if n, ok := m.svc.NoteFor(msg.Task.ID); ok {
			fm.Content = n.Content
			fm.Progress = strconv.Itoa(n.Progress)
		}
		m.noteForm = fm
		return m.openForm(NewNoteForm(fm, msg.Task.Title), func(m *Model) error {
			progress, _ := strconv.Atoi(strings.TrimSpace(fm.Progress))
			_, err := m.svc.SaveNote(m.ctx, fm.TaskID, fm.Content, progress)
			if err == nil {
				m.status = "Note saved"
			}
			return err
		}), true

	case tasklist.TrackTaskMsg:
		m.engine.SelectTask(msg.Task.ID)
		m.status = "Tracking " + msg.Task.Title
		m.state = StateTimer
		return nil, true
	}
	return nil, false
}

// updateDashboard handles the copy saver prompt.
func (m *Model) updateDashboard(msg tea.KeyMsg) tea.Cmd {
	if m.staged == "" {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.SaveClip):
		text, err := m.svc.TakeStaged(m.ctx)
		if err != nil {
			m.setError(err)
			break
		}
		if _, err := m.svc.SaveClipAsNote(m.ctx, text); err != nil {
			m.setError(err)
			break
		}
		m.status = "Copied text saved as a note"
	case key.Matches(msg, m.keys.Cite):
		text, err := m.svc.TakeStaged(m.ctx)
		if err != nil {
			m.setError(err)
			break
		}
		m.refreshStaged()
		return m.openCitationForm(text)
	case key.Matches(msg, m.keys.Dismiss):
		if _, err := m.svc.TakeStaged(m.ctx); err != nil {
			m.setError(err)
		}
	}
	m.refreshStaged()
	return nil
}

func (m *Model) updateTimer(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.StartStop):
		if m.engine.Status().Running {
			m.stopTicking()
			ev, err := m.engine.Stop(m.ctx)
			if err != nil {
				m.setError(err)
				return nil
			}
			m.status = "Timer stopped"
			if ev.Session != nil {
				m.status = fmt.Sprintf("Logged %.1f min", ev.Session.Duration)
			}
			return nil
		}
		m.engine.Start()
		m.status = ""
		return m.startTicking()
	case key.Matches(msg, m.keys.Pomodoro):
		m.engine.Pomodoro()
		m.status = ""
		return m.startTicking()
	}
	return nil
}

func (m *Model) openCitationForm(source string) tea.Cmd {
	fm := &CitationFormModel{Source: source, Format: models.FormatAPA}
	m.citationForm = fm
	return m.openForm(NewCitationForm(fm), func(m *Model) error {
		c, err := m.svc.AddCitation(m.ctx, fm.Source, fm.Format)
		if err == nil {
			m.status = "Copied: " + clipboard.Preview(c.Text)
		}
		return err
	})
}

func (m *Model) updateCitations(msg tea.KeyMsg) tea.Cmd {
	citations := m.svc.Citations()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.citationCursor > 0 {
			m.citationCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.citationCursor < len(citations)-1 {
			m.citationCursor++
		}
	case key.Matches(msg, m.keys.Add):
		return m.openCitationForm("")
	case key.Matches(msg, m.keys.Copy):
		if len(citations) == 0 {
			return nil
		}
		c, err := m.svc.CopyCitation(citations[m.citationCursor].ID)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.status = "Copied: " + clipboard.Preview(c.Text)
	}
	return nil
}

func (m *Model) updateTimetable(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.slotTime = (m.slotTime - 1 + len(constants.TimeSlots)) % len(constants.TimeSlots)
	case key.Matches(msg, m.keys.Down):
		m.slotTime = (m.slotTime + 1) % len(constants.TimeSlots)
	case key.Matches(msg, m.keys.Left):
		m.slotDay = (m.slotDay - 1 + len(constants.Days)) % len(constants.Days)
	case key.Matches(msg, m.keys.Right):
		m.slotDay = (m.slotDay + 1) % len(constants.Days)
	case key.Matches(msg, m.keys.Enter):
		day, label := constants.Days[m.slotDay], constants.TimeSlots[m.slotTime]
		fm := &SlotFormModel{Day: day, Time: label, Subject: m.svc.Timetable().Subject(day + "-" + label)}
		m.slotForm = fm
		return m.openForm(NewSlotForm(fm), func(m *Model) error {
			if err := m.svc.SetSlot(m.ctx, fm.Day, fm.Time, fm.Subject); err != nil {
				return err
			}
			m.status = "Timetable saved"
			return nil
		})
	case key.Matches(msg, m.keys.Reminder):
		fm := &ReminderFormModel{}
		m.reminderForm = fm
		return m.openForm(NewReminderForm(fm), func(m *Model) error {
			_, err := m.svc.AddReminder(m.ctx, fm.Text)
			return err
		})
	}
	return nil
}
