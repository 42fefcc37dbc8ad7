package models

import (
	"encoding/json"
	"strings"
)

// Timetable maps "{day}-{time}" slot keys to a subject. It is stored as
// {"slots": {...}}; a bare slot map is accepted on read.
type Timetable struct {
	Slots map[string]string
}

func NewTimetable() Timetable {
	return Timetable{Slots: make(map[string]string)}
}

// Subject returns the subject for a slot, or "" when no class is set.
func (t Timetable) Subject(slotKey string) string {
	if t.Slots == nil {
		return ""
	}
	return t.Slots[slotKey]
}

// Occupied returns the keys of slots that have a non-blank subject.
func (t Timetable) Occupied() []string {
	var keys []string
	for k, v := range t.Slots {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Clone returns a deep copy.
func (t Timetable) Clone() Timetable {
	c := NewTimetable()
	for k, v := range t.Slots {
		c.Slots[k] = v
	}
	return c
}

type timetableJSON struct {
	Slots map[string]string `json:"slots"`
}

func (t Timetable) MarshalJSON() ([]byte, error) {
	slots := t.Slots
	if slots == nil {
		slots = map[string]string{}
	}
	return json.Marshal(timetableJSON{Slots: slots})
}

func (t *Timetable) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	slots := make(map[string]string)
	if raw, ok := fields["slots"]; ok {
		if string(raw) != "null" {
			if err := json.Unmarshal(raw, &slots); err != nil {
				return err
			}
		}
	} else if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	t.Slots = slots
	return nil
}
