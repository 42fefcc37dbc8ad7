// Package reminders turns fired alarms into desktop notifications.
package reminders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/julianstephens/unidash/internal/alarms"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/notifier"
)

const (
	deadlineTitle = "Reminder: %s"
	deadlineBody  = "Due soon!"
	classTitle    = "Class Time: %s"
	classBody     = "Starting in 5 min!"
)

// DocumentLoader reads the latest persisted document.
type DocumentLoader interface {
	Load(ctx context.Context) (models.Document, error)
}

// Handler is the alarm listener. It reloads the document on every alarm so
// edits made since the alarm was registered are seen.
type Handler struct {
	docs     DocumentLoader
	notifier notifier.Notifier
}

func NewHandler(docs DocumentLoader, n notifier.Notifier) *Handler {
	return &Handler{docs: docs, notifier: n}
}

func (h *Handler) Handle(ctx context.Context, a alarms.Alarm) error {
	doc, err := h.docs.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document for alarm %s: %w", a.Name, err)
	}

	n, ok := Build(doc, a.Name)
	if !ok {
		return fmt.Errorf("unrecognized alarm: %s", a.Name)
	}
	return h.notifier.Notify(ctx, n)
}

// Build returns the notification for an alarm name. A task or slot that no
// longer exists leaves the label blank.
func Build(doc models.Document, alarmName string) (notifier.Notification, bool) {
	kind, ref := alarms.ParseName(alarmName)
	switch kind {
	case alarms.KindDeadline:
		title := ""
		if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
			if task, ok := doc.TaskByID(id); ok {
				title = task.Title
			}
		}
		return notifier.Notification{
			Title: fmt.Sprintf(deadlineTitle, title),
			Body:  deadlineBody,
		}, true
	case alarms.KindTimetable:
		return notifier.Notification{
			Title: fmt.Sprintf(classTitle, doc.Timetable.Subject(ref)),
			Body:  classBody,
		}, true
	}
	return notifier.Notification{}, false
}

var _ alarms.Handler = (*Handler)(nil)
