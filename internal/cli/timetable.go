package cli

import (
	"strings"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/timetable"
)

// TimetableSetCmd fills one slot. An empty subject clears it.
type TimetableSetCmd struct {
	Day     string `arg:"" help:"Day (Mon..Sun)."`
	Time    string `arg:"" help:"Hour label (9AM..3PM)."`
	Subject string `arg:"" optional:"" help:"Subject; omit to clear the slot."`
}

func (c *TimetableSetCmd) Run(ctx *Context) error {
	if err := ctx.Service.SetSlot(ctx.Context(), c.Day, strings.ToUpper(c.Time), c.Subject); err != nil {
		return err
	}
	if strings.TrimSpace(c.Subject) == "" {
		ctx.printf("Cleared %s %s\n", c.Day, c.Time)
	} else {
		ctx.printf("Set %s %s to %s\n", c.Day, c.Time, strings.TrimSpace(c.Subject))
	}
	return nil
}

type TimetableShowCmd struct{}

func (c *TimetableShowCmd) Run(ctx *Context) error {
	tt := ctx.Service.Timetable()
	const width = 12

	ctx.printf("%-6s", "")
	for _, day := range constants.Days {
		ctx.printf("%-*s", width, day)
	}
	ctx.println()
	for _, label := range constants.TimeSlots {
		ctx.printf("%-6s", label)
		for _, day := range constants.Days {
			subject := tt.Subject(timetable.SlotKey(day, label))
			if r := []rune(subject); len(r) > width-1 {
				subject = string(r[:width-2]) + "…"
			}
			ctx.printf("%-*s", width, subject)
		}
		ctx.println()
	}
	return nil
}

// TimetableSaveCmd re-saves the timetable, re-registering every class reminder.
type TimetableSaveCmd struct{}

func (c *TimetableSaveCmd) Run(ctx *Context) error {
	tt := ctx.Service.Timetable()
	if err := ctx.Service.SaveTimetable(ctx.Context(), tt); err != nil {
		return err
	}
	n := 0
	for _, key := range tt.Occupied() {
		if day, _, ok := timetable.SplitSlotKey(key); ok && timetable.IsWeekday(day) {
			n++
		}
	}
	ctx.printf("Timetable saved; %d class reminders scheduled.\n", n)
	return nil
}
