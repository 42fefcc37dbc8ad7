package timetable

import (
	"testing"
	"time"

	"github.com/julianstephens/unidash/internal/constants"
)

func TestParseHourLabel(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"9AM", 9, false},
		{"10AM", 10, false},
		{"12PM", 12, false},
		{"12AM", 0, false},
		{"1PM", 13, false},
		{"3pm", 15, false},
		{" 2 PM ", 14, false},
		{"13PM", 0, true},
		{"0AM", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseHourLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHourLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHourLabel(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestSlotKeys(t *testing.T) {
	key := SlotKey("Wed", "12PM")
	if key != "Wed-12PM" {
		t.Fatalf("SlotKey = %q", key)
	}
	day, label, ok := SplitSlotKey(key)
	if !ok || day != "Wed" || label != "12PM" {
		t.Errorf("SplitSlotKey = %q %q %v", day, label, ok)
	}
	for _, bad := range []string{"Wed", "-9AM", "Wed-", ""} {
		if _, _, ok := SplitSlotKey(bad); ok {
			t.Errorf("SplitSlotKey(%q) should fail", bad)
		}
	}
}

func TestValidSlotAndWeekday(t *testing.T) {
	if !ValidSlot("Sat", "3PM") || ValidSlot("Sat", "4PM") || ValidSlot("Xyz", "9AM") {
		t.Error("ValidSlot gave wrong answer")
	}
	if !IsWeekday("Fri") || IsWeekday("Sun") {
		t.Error("IsWeekday gave wrong answer")
	}
}

func TestReminderAt(t *testing.T) {
	// Wednesday 2030-01-02 08:00 UTC
	now := time.Date(2030, 1, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		day    string
		label  string
		policy string
		want   time.Time
	}{
		{"later today", "Wed", "9AM", constants.ReminderPolicyOffset, time.Date(2030, 1, 2, 8, 55, 0, 0, time.UTC)},
		{"later this week", "Fri", "2PM", constants.ReminderPolicyOffset, time.Date(2030, 1, 4, 13, 55, 0, 0, time.UTC)},
		{"earlier weekday rolls to next week", "Mon", "10AM", constants.ReminderPolicyOffset, time.Date(2030, 1, 7, 9, 55, 0, 0, time.UTC)},
		{"legacy truncates to the hour", "Fri", "2PM", constants.ReminderPolicyLegacy, time.Date(2030, 1, 4, 13, 0, 0, 0, time.UTC)},
		{"legacy noon", "Thu", "12PM", constants.ReminderPolicyLegacy, time.Date(2030, 1, 3, 11, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReminderAt(now, tt.day, tt.label, tt.policy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ReminderAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReminderAtPassedTodayRollsOver(t *testing.T) {
	// Wednesday 08:56, the 9AM reminder (08:55) has passed
	now := time.Date(2030, 1, 2, 8, 56, 0, 0, time.UTC)
	got, err := ReminderAt(now, "Wed", "9AM", constants.ReminderPolicyOffset)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2030, 1, 9, 8, 55, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ReminderAt = %v, want %v", got, want)
	}
}

func TestReminderAtRejectsBadInput(t *testing.T) {
	now := time.Now()
	if _, err := ReminderAt(now, "Funday", "9AM", constants.ReminderPolicyOffset); err == nil {
		t.Error("expected error for bad day")
	}
	if _, err := ReminderAt(now, "Mon", "25PM", constants.ReminderPolicyOffset); err == nil {
		t.Error("expected error for bad label")
	}
}

func TestReminderAtLegacyHalfHourZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2026, 10, 12, 6, 0, 0, 0, ist) // Monday

	got, err := ReminderAt(now, "Mon", "2PM", constants.ReminderPolicyLegacy)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 10, 12, 13, 0, 0, 0, ist)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = ReminderAt(now, "Mon", "2PM", constants.ReminderPolicyOffset)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 10, 12, 13, 55, 0, 0, ist); !got.Equal(want) {
		t.Errorf("offset: got %v, want %v", got, want)
	}
}
