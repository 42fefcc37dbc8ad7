package models

import (
	"encoding/json"
	"fmt"
)

// Note holds free text and a progress percentage for a task. Notes saved
// from the clipboard have no task (TaskID 0) and carry their own ID and Date.
//
// Task notes are stored as {taskId, content, progress} and clip notes as
// {id, text, date}.
type Note struct {
	ID       int64
	TaskID   int64
	Content  string
	Progress int
	Date     string
}

type taskNoteJSON struct {
	ID       int64  `json:"id,omitempty"`
	TaskID   int64  `json:"taskId"`
	Content  string `json:"content"`
	Progress int    `json:"progress"`
	Date     string `json:"date,omitempty"`
}

type clipNoteJSON struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

func (n Note) MarshalJSON() ([]byte, error) {
	if !n.Attached() {
		return json.Marshal(clipNoteJSON{ID: n.ID, Text: n.Content, Date: n.Date})
	}
	return json.Marshal(taskNoteJSON(n))
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var v struct {
		taskNoteJSON
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Note(v.taskNoteJSON)
	if n.Content == "" && v.Text != nil {
		n.Content = *v.Text
	}
	return nil
}

func (n *Note) Validate() error {
	if n.Progress < 0 || n.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", n.Progress)
	}
	return nil
}

// Attached reports whether the note belongs to a task.
func (n *Note) Attached() bool {
	return n.TaskID != 0
}
