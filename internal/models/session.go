package models

type SessionType string

const (
	SessionPomodoro SessionType = "pomodoro"
	SessionBreak    SessionType = "break"
	SessionManual   SessionType = "manual"
)

// TimeSession is one entry of the append-only time log. TaskID is a weak
// reference and may point at a task that no longer exists.
type TimeSession struct {
	TaskID   int64       `json:"taskId"`
	Duration float64     `json:"duration"` // minutes
	Date     string      `json:"date"`     // YYYY-MM-DD
	Type     SessionType `json:"type"`
}
