package cli

import (
	"encoding/json"
	"strings"

	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/stats"
)

// StatsCmd prints the dashboard overview.
type StatsCmd struct {
	JSON     bool `help:"Print the summary as JSON."`
	Sessions int  `help:"Number of recent time sessions to list." default:"5"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	doc := ctx.Service.Document()
	sum := stats.Summarize(doc, ctx.Now())

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	ctx.printf("Tasks:       %d total, %d completed, %d pending\n", sum.Total, sum.Completed, sum.Pending)
	ctx.printf("Completion:  %.1f%% %s\n", sum.CompletionRate, strings.Repeat("★", sum.Stars)+strings.Repeat("☆", 5-sum.Stars))
	ctx.printf("Adherence:   %.1f%%\n", sum.Adherence)
	ctx.printf("Tracked:     %.1f min\n", sum.TrackedMinutes)
	ctx.printf("Notes:       %d\n", sum.Notes)

	ctx.println("\nCategories:")
	for _, cat := range models.Categories {
		ctx.printf("  %-9s %d\n", cat, sum.Categories[cat])
	}

	if len(sum.Upcoming) > 0 {
		ctx.println("\nUpcoming:")
		for _, t := range sum.Upcoming {
			ctx.printf("  %s  %s\n", t.Due, t.Title)
		}
	}

	sessions := doc.TimeSessions
	if c.Sessions > 0 && len(sessions) > 0 {
		ctx.println("\nRecent sessions:")
		start := max(0, len(sessions)-c.Sessions)
		for _, s := range sessions[start:] {
			ctx.printf("  %-20s %5.1f min  %s\n", stats.SessionLabel(doc.Tasks, s), s.Duration, s.Type)
		}
	}
	return nil
}
