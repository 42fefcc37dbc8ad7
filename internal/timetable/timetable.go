// Package timetable holds the rules for the weekly class grid: slot keys,
// time labels and when a class reminder fires.
package timetable

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/unidash/internal/constants"
)

var hourLabel = regexp.MustCompile(`^(\d{1,2})\s*([AaPp][Mm])$`)

var weekdayOf = map[string]time.Weekday{
	"Sun": time.Sunday,
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
}

// ParseHourLabel converts "9AM".."12PM" style labels to a 24h hour.
// 12AM is 0 and 12PM is 12.
func ParseHourLabel(label string) (int, error) {
	m := hourLabel.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, fmt.Errorf("invalid time label: %q", label)
	}
	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("invalid hour in time label: %q", label)
	}

	pm := strings.EqualFold(m[2], "PM")
	switch {
	case hour == 12 && !pm:
		return 0, nil
	case hour == 12 && pm:
		return 12, nil
	case pm:
		return hour + 12, nil
	}
	return hour, nil
}

// SlotKey joins a day and time label, "Mon-9AM".
func SlotKey(day, timeLabel string) string {
	return day + "-" + timeLabel
}

// SplitSlotKey splits "Mon-9AM" into its day and time label.
func SplitSlotKey(key string) (day, timeLabel string, ok bool) {
	day, timeLabel, ok = strings.Cut(key, "-")
	if !ok || day == "" || timeLabel == "" {
		return "", "", false
	}
	return day, timeLabel, true
}

// ValidSlot reports whether day and time label are on the grid.
func ValidSlot(day, timeLabel string) bool {
	return slices.Contains(constants.Days, day) && slices.Contains(constants.TimeSlots, timeLabel)
}

// IsWeekday reports whether day is Mon through Fri.
func IsWeekday(day string) bool {
	return slices.Contains(constants.Weekdays, day)
}

// ReminderAt returns when the reminder for a class in the given slot fires:
// on the next occurrence of the slot's weekday that is still ahead of now.
//
// The offset policy fires five minutes before the class. The legacy policy
// fires at the start of the hour before the class.
func ReminderAt(now time.Time, day, timeLabel, policy string) (time.Time, error) {
	wd, ok := weekdayOf[day]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid day: %q", day)
	}
	hour, err := ParseHourLabel(timeLabel)
	if err != nil {
		return time.Time{}, err
	}

	instant := func(date time.Time) time.Time {
		class := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, now.Location())
		at := class.Add(-constants.ClassReminderLead)
		if policy == constants.ReminderPolicyLegacy {
			at = time.Date(at.Year(), at.Month(), at.Day(), at.Hour(), 0, 0, 0, at.Location())
		}
		return at
	}

	daysAhead := (int(wd) - int(now.Weekday()) + 7) % 7
	at := instant(now.AddDate(0, 0, daysAhead))
	if !at.After(now) {
		at = instant(now.AddDate(0, 0, daysAhead+7))
	}
	return at, nil
}
