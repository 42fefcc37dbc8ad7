// Package stats computes the read-only views over the document.
package stats

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/models"
)

// Filter returns tasks whose title or category contains query, ignoring
// case. An empty query matches everything.
func Filter(tasks []models.Task, query string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if q == "" ||
			strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(string(t.Category)), q) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDue returns a copy ordered by ascending due date. Ties keep their
// original order.
func SortByDue(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return strings.Compare(a.Due, b.Due)
	})
	return out
}

// Completed counts completed tasks.
func Completed(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// CompletionRate is the percentage of completed tasks, one decimal, 0 for
// an empty list.
func CompletionRate(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return round1(float64(Completed(tasks)) / float64(len(tasks)) * 100)
}

// PerformanceStars maps a completion rate to 0..5 stars.
func PerformanceStars(rate float64) int {
	return int(math.Round(rate / 20))
}

// Adherence relates completed tasks to occupied timetable slots, as a
// percentage with one decimal. It is 0 when no slot is occupied and may
// exceed 100.
//
// Slots cleared to a blank subject are not counted. The browser dashboard
// divides by every stored slot key, blanks included, so its figure is lower
// for a timetable with cleared slots.
func Adherence(tasks []models.Task, tt models.Timetable) float64 {
	slots := len(tt.Occupied())
	if slots == 0 {
		return 0
	}
	return round1(float64(Completed(tasks)) / float64(slots) * 100)
}

// CategoryCounts counts tasks per category. Every category is present.
func CategoryCounts(tasks []models.Task) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}
	for _, t := range tasks {
		counts[t.Category]++
	}
	return counts
}

// TotalTracked sums session durations in minutes.
func TotalTracked(sessions []models.TimeSession) float64 {
	total := 0.0
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}

// Upcoming returns the incomplete tasks due after now, soonest first,
// capped at UpcomingLimit.
func Upcoming(tasks []models.Task, now time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, err := t.DueDate()
		if err != nil || !due.After(now) {
			continue
		}
		out = append(out, t)
	}
	out = SortByDue(out)
	if len(out) > constants.UpcomingLimit {
		out = out[:constants.UpcomingLimit]
	}
	return out
}

// SessionLabel names a session for charts: the first five characters of the
// task title, or N/A when the task is gone, followed by the date.
func SessionLabel(tasks []models.Task, s models.TimeSession) string {
	label := "N/A"
	for _, t := range tasks {
		if t.ID == s.TaskID && t.Title != "" {
			runes := []rune(t.Title)
			label = string(runes[:min(5, len(runes))])
			break
		}
	}
	return fmt.Sprintf("%s (%s)", label, s.Date)
}

// Summary is the dashboard overview.
type Summary struct {
	Total          int                     `json:"total"`
	Completed      int                     `json:"completed"`
	Pending        int                     `json:"pending"`
	CompletionRate float64                 `json:"completionRate"`
	Stars          int                     `json:"stars"`
	Adherence      float64                 `json:"adherence"`
	TrackedMinutes float64                 `json:"trackedMinutes"`
	Categories     map[models.Category]int `json:"categories"`
	Notes          int                     `json:"notes"`
	Upcoming       []models.Task           `json:"upcoming"`
}

func Summarize(doc models.Document, now time.Time) Summary {
	completed := Completed(doc.Tasks)
	rate := CompletionRate(doc.Tasks)
	upcoming := Upcoming(doc.Tasks, now)
	if upcoming == nil {
		upcoming = []models.Task{}
	}
	return Summary{
		Total:          len(doc.Tasks),
		Completed:      completed,
		Pending:        len(doc.Tasks) - completed,
		CompletionRate: rate,
		Stars:          PerformanceStars(rate),
		Adherence:      Adherence(doc.Tasks, doc.Timetable),
		TrackedMinutes: TotalTracked(doc.TimeSessions),
		Categories:     CategoryCounts(doc.Tasks),
		Notes:          len(doc.Notes),
		Upcoming:       upcoming,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
