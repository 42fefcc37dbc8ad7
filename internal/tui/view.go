package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/unidash/internal/clipboard"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/stats"
	"github.com/julianstephens/unidash/internal/timetable"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateTasks:
		content = docStyle.Render(m.taskList.View())
	case StateTimer:
		content = m.viewTimer()
	case StateNotes:
		content = m.viewNotes()
	case StateCitations:
		content = m.viewCitations()
	case StateTimetable:
		content = m.viewTimetable()
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, statusStyle.Render("  "+m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDashboard() string {
	doc := m.svc.Document()
	sum := stats.Summarize(doc, m.now())

	overview := fmt.Sprintf(
		"%s\nTotal tasks: %d\nCompleted: %d\nPending: %d\nCompletion: %.1f%%\nPerformance: %s\nAdherence: %.1f%%\nTracked: %.1f min",
		titleStyle.Render("Overview"),
		sum.Total, sum.Completed, sum.Pending, sum.CompletionRate,
		strings.Repeat("★", sum.Stars)+strings.Repeat("☆", 5-sum.Stars),
		sum.Adherence, sum.TrackedMinutes,
	)

	var cats []string
	for _, c := range models.Categories {
		cats = append(cats, fmt.Sprintf("%s: %d", c, sum.Categories[c]))
	}
	categories := titleStyle.Render("Categories") + "\n" + strings.Join(cats, "\n")

	upcoming := titleStyle.Render("Upcoming")
	if len(sum.Upcoming) == 0 {
		upcoming += "\n" + mutedStyle.Render("Nothing due")
	}
	for _, t := range sum.Upcoming {
		upcoming += fmt.Sprintf("\n%s  %s", t.Due, t.Title)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(overview),
		cardStyle.Render(categories),
		cardStyle.Render(upcoming),
	)

	sessions := titleStyle.Render("Recent sessions")
	recent := doc.TimeSessions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	if len(recent) == 0 {
		sessions += "\n" + mutedStyle.Render("No sessions yet")
	}
	for _, s := range recent {
		sessions += fmt.Sprintf("\n%-20s %5.1f min  %s", stats.SessionLabel(doc.Tasks, s), s.Duration, s.Type)
	}

	blocks := []string{row, cardStyle.Render(sessions)}
	if m.staged != "" {
		prompt := fmt.Sprintf("%s\n%q\n%s",
			titleStyle.Render("Copied text"),
			clipboard.Preview(m.staged),
			mutedStyle.Render("[n] save as note  [c] cite  [x] dismiss"),
		)
		blocks = append(blocks, cardStyle.Render(prompt))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (m Model) viewTimer() string {
	st := m.engine.Status()
	remaining := max(0, st.Target-st.Elapsed)
	clock := clockStyle.Render(fmt.Sprintf("%02d:%02d", remaining/60, remaining%60))

	mode := "Work"
	if st.Mode == "break" {
		mode = "Break"
	}
	state := "idle"
	switch {
	case st.Running:
		state = "running"
	case st.ResumePending:
		state = "break starting"
	}

	task := "none (press t on a task)"
	if t, ok := m.svc.Document().TaskByID(st.TaskID); ok {
		task = t.Title
	} else if st.TaskID != 0 {
		task = "N/A"
	}

	var pct float64
	if st.Target > 0 {
		pct = float64(st.Elapsed) / float64(st.Target)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(mode+" session")+mutedStyle.Render(" ("+state+")"),
		clock,
		m.bar.ViewAs(pct),
		fmt.Sprintf("Task: %s", task),
		fmt.Sprintf("Pomodoros completed: %d", st.Cycles),
	)
	return docStyle.Render(body)
}

func (m Model) viewNotes() string {
	doc := m.svc.Document()
	if len(doc.Notes) == 0 {
		return docStyle.Render("No notes yet.\nOpen a task and press 'n' to write one.")
	}
	var rows []string
	for _, n := range doc.Notes {
		title := "Clip"
		if n.Attached() {
			title = "N/A"
			if t, ok := doc.TaskByID(n.TaskID); ok {
				title = t.Title
			}
		} else if n.Date != "" {
			title += " (" + n.Date + ")"
		}
		header := titleStyle.Render(title)
		if n.Attached() {
			header += "  " + m.bar.ViewAs(float64(n.Progress)/100) + fmt.Sprintf(" %d%%", n.Progress)
		}
		rows = append(rows, cardStyle.Render(header+"\n"+n.Content))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) viewCitations() string {
	citations := m.svc.Citations()
	if len(citations) == 0 {
		return docStyle.Render("No citations yet.\nPress 'a' to add one.")
	}
	var rows []string
	for i, c := range citations {
		line := "  " + c.Text
		if i == m.citationCursor {
			line = selectedCellStyle.UnsetWidth().Render("> " + c.Text)
		}
		rows = append(rows, line)
	}
	return docStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) viewTimetable() string {
	tt := m.svc.Timetable()

	header := []string{cellStyle.Render("")}
	for _, d := range constants.Days {
		header = append(header, cellStyle.Render(d))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for ti, label := range constants.TimeSlots {
		cells := []string{cellStyle.Render(label)}
		for di, day := range constants.Days {
			subject := tt.Subject(timetable.SlotKey(day, label))
			if subject == "" {
				subject = "·"
			}
			style := cellStyle
			if ti == m.slotTime && di == m.slotDay {
				style = selectedCellStyle
			}
			cells = append(cells, style.Render(truncate(subject, 11)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	reminders := titleStyle.Render("Reminders")
	rs := m.svc.Reminders()
	if len(rs) == 0 {
		reminders += "\n" + mutedStyle.Render("Press 'r' to pin one")
	}
	for _, r := range rs {
		reminders += fmt.Sprintf("\n%s  %s", mutedStyle.Render(r.Time), r.Text)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(rows, "\n"),
		"",
		reminders,
	))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(0, m.height-4),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this task?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
