package models

// Reminder is a free-text note pinned in the timetable panel.
type Reminder struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Time string `json:"time"` // HH:MM:SS
}
