package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/julianstephens/unidash/internal/constants"
)

// Document is the whole persisted state, one field per top-level key.
type Document struct {
	Tasks        []Task        `json:"tasks"`
	TimeSessions []TimeSession `json:"timeSessions"`
	Notes        []Note        `json:"notes"`
	Citations    []Citation    `json:"citations"`
	Timetable    Timetable     `json:"timetable"`
	Reminders    []Reminder    `json:"reminders"`
	Settings     Settings      `json:"settings"`
}

// NewDocument returns a document with every key at its empty default.
func NewDocument() Document {
	return Document{
		Tasks:        []Task{},
		TimeSessions: []TimeSession{},
		Notes:        []Note{},
		Citations:    []Citation{},
		Timetable:    NewTimetable(),
		Reminders:    []Reminder{},
		Settings:     DefaultSettings(),
	}
}

// IsDocumentKey reports whether key is one of the synced top-level keys.
func IsDocumentKey(key string) bool {
	return slices.Contains(constants.DocumentKeys, key)
}

// Clone returns a copy that shares no slices or maps with d.
func (d Document) Clone() Document {
	return Document{
		Tasks:        slices.Clone(d.Tasks),
		TimeSessions: slices.Clone(d.TimeSessions),
		Notes:        slices.Clone(d.Notes),
		Citations:    slices.Clone(d.Citations),
		Timetable:    d.Timetable.Clone(),
		Reminders:    slices.Clone(d.Reminders),
		Settings:     d.Settings,
	}
}

// Normalize replaces nil collections with empty ones so encodings never
// contain null and applies default settings.
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.TimeSessions == nil {
		d.TimeSessions = []TimeSession{}
	}
	if d.Notes == nil {
		d.Notes = []Note{}
	}
	if d.Citations == nil {
		d.Citations = []Citation{}
	}
	if d.Timetable.Slots == nil {
		d.Timetable.Slots = make(map[string]string)
	}
	if d.Reminders == nil {
		d.Reminders = []Reminder{}
	}
	ApplyDefaultSettings(&d.Settings)
}

func (d *Document) field(key string) (any, error) {
	switch key {
	case constants.KeyTasks:
		return &d.Tasks, nil
	case constants.KeyTimeSessions:
		return &d.TimeSessions, nil
	case constants.KeyNotes:
		return &d.Notes, nil
	case constants.KeyCitations:
		return &d.Citations, nil
	case constants.KeyTimetable:
		return &d.Timetable, nil
	case constants.KeyReminders:
		return &d.Reminders, nil
	case constants.KeySettings:
		return &d.Settings, nil
	}
	return nil, fmt.Errorf("unknown document key: %s", key)
}

// reset zeroes one key so decoding replaces it instead of merging into an
// existing map.
func (d *Document) reset(key string) {
	switch key {
	case constants.KeyTasks:
		d.Tasks = nil
	case constants.KeyTimeSessions:
		d.TimeSessions = nil
	case constants.KeyNotes:
		d.Notes = nil
	case constants.KeyCitations:
		d.Citations = nil
	case constants.KeyTimetable:
		d.Timetable = Timetable{}
	case constants.KeyReminders:
		d.Reminders = nil
	case constants.KeySettings:
		d.Settings = Settings{}
	}
}

// Encode marshals the named top-level keys, or every key when none are given.
func (d Document) Encode(keys ...string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		keys = constants.DocumentKeys
	}
	d.Normalize()

	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		ptr, err := d.field(key)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(ptr)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

// DecodeDocument builds a document from raw key/value pairs. Absent and null
// keys take their defaults; unknown keys are ignored.
func DecodeDocument(raw map[string]json.RawMessage) (Document, error) {
	doc := NewDocument()
	if err := doc.Merge(raw); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Merge overwrites the keys present in raw. Nothing inside a key is merged.
func (d *Document) Merge(raw map[string]json.RawMessage) error {
	for key, data := range raw {
		if !IsDocumentKey(key) {
			continue
		}
		ptr, err := d.field(key)
		if err != nil {
			return err
		}
		if len(data) == 0 || string(data) == "null" {
			continue
		}
		d.reset(key)
		if err := json.Unmarshal(data, ptr); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
	}
	d.Normalize()
	return nil
}

// TaskByID returns the task with the given id.
func (d Document) TaskByID(id int64) (Task, bool) {
	for _, t := range d.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
