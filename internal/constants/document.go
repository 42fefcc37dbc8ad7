package constants

// Top-level keys of the persisted document.
const (
	KeyTasks        = "tasks"
	KeyTimeSessions = "timeSessions"
	KeyNotes        = "notes"
	KeyCitations    = "citations"
	KeyTimetable    = "timetable"
	KeyReminders    = "reminders"
	KeySettings     = "settings"

	// Local-only keys. These never leave the device.
	KeyCopiedText = "copiedText"
	KeyAlarms     = "alarms"
)

// DocumentKeys lists every synced key in a stable order.
var DocumentKeys = []string{
	KeyTasks,
	KeyTimeSessions,
	KeyNotes,
	KeyCitations,
	KeyTimetable,
	KeyReminders,
	KeySettings,
}

// Timetable grid labels
var (
	Days      = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	Weekdays  = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	TimeSlots = []string{"9AM", "10AM", "11AM", "12PM", "1PM", "2PM", "3PM"}
)
