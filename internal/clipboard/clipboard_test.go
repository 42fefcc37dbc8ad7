package clipboard

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWorth(t *testing.T) {
	tests := map[string]bool{
		"":       false,
		"short":  false,
		"sixsix": true,
		"ééééé":  false,
		"éééééé": true,
	}
	for text, want := range tests {
		if got := Worth(text); got != want {
			t.Errorf("Worth(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	if Preview("brief") != "brief" {
		t.Error("short text should not change")
	}
	long := strings.Repeat("a", 80)
	got := Preview(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 53 {
		t.Errorf("Preview = %q", got)
	}
}

func TestWatcherPoll(t *testing.T) {
	ctx := context.Background()
	clip := &Memory{}
	_ = clip.WriteAll("already on the clipboard")

	var staged []string
	w := NewWatcher(clip, 0, func(ctx context.Context, text string) error {
		staged = append(staged, text)
		return nil
	})

	if ok, _ := w.Poll(ctx); ok {
		t.Error("existing clipboard content should be ignored")
	}

	_ = clip.WriteAll("The mitochondria is the powerhouse")
	if ok, err := w.Poll(ctx); !ok || err != nil {
		t.Errorf("expected new copy staged, got %v %v", ok, err)
	}
	if ok, _ := w.Poll(ctx); ok {
		t.Error("unchanged clipboard should not be staged twice")
	}

	_ = clip.WriteAll("tiny")
	if ok, _ := w.Poll(ctx); ok {
		t.Error("short copies should be skipped")
	}

	if len(staged) != 1 || staged[0] != "The mitochondria is the powerhouse" {
		t.Errorf("staged = %v", staged)
	}
}

func TestWatcherErrors(t *testing.T) {
	ctx := context.Background()
	clip := &Memory{Err: errors.New("no xclip")}
	w := NewWatcher(clip, 0, func(context.Context, string) error { return nil })
	if _, err := w.Poll(ctx); err == nil {
		t.Error("expected read error")
	}

	clip = &Memory{}
	w = NewWatcher(clip, 0, func(context.Context, string) error { return errors.New("store down") })
	_, _ = w.Poll(ctx)
	_ = clip.WriteAll("something long enough")
	if _, err := w.Poll(ctx); err == nil {
		t.Error("expected staging error")
	}
}
