package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/unidash/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/unidash/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing lockfile")
	}

	bad := []struct {
		name    string
		content string
		mention string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("expected error mentioning %q, got %v", tt.mention, err)
			}
		})
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) { return nil, nil }
	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing process")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayExecutablePrefix}, nil
	}
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %s secret %s", port, secret)
	}
}

func newTrayServer(t *testing.T, got *WebhookPayload, requestID *string) (*httptest.Server, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(constants.NotifySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if requestID != nil {
			*requestID = r.Header.Get(constants.NotifyRequestIDHeader)
		}

		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got != nil {
			*got = payload
		}
		if payload.Title == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	parts := strings.Split(server.URL, ":")
	return server, parts[len(parts)-1]
}

func TestSend(t *testing.T) {
	oldID := newRequestIDFunc
	defer func() { newRequestIDFunc = oldID }()
	newRequestIDFunc = func() string { return "req-1" }

	var got WebhookPayload
	var requestID string
	_, port := newTrayServer(t, &got, &requestID)
	tray := NewTray()
	ctx := context.Background()

	if err := tray.send(ctx, port, "test-secret", WebhookPayload{Title: "Class Time: Physics", Body: "Starting in 5 min!"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got.Title != "Class Time: Physics" || requestID != "req-1" {
		t.Errorf("server saw %+v, request id %q", got, requestID)
	}

	if err := tray.send(ctx, port, "", WebhookPayload{Title: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := tray.send(ctx, port, "wrong-secret", WebhookPayload{Title: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := tray.send(ctx, port, "test-secret", WebhookPayload{Title: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestTrayNotifyEndToEnd(t *testing.T) {
	tempDir := t.TempDir()
	oldUserConfigDirFunc, oldFindProcessFunc := userConfigDirFunc, findProcessFunc
	defer func() {
		userConfigDirFunc = oldUserConfigDirFunc
		findProcessFunc = oldFindProcessFunc
	}()
	userConfigDirFunc = func() (string, error) { return tempDir, nil }
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayExecutablePrefix + "-bin"}, nil
	}

	var got WebhookPayload
	_, port := newTrayServer(t, &got, nil)

	lockDir := filepath.Join(tempDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|4242|test-secret", port)
	if err := os.WriteFile(filepath.Join(lockDir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}

	n := Notification{Title: "Reminder: Essay", Body: "Due soon!"}
	if err := NewTray().Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got.Text != "Reminder: Essay - Due soon!" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n, err := New(constants.NotifyModeConsole, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Notify(context.Background(), Notification{Title: "Reminder: Essay", Body: "Due soon!"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Reminder: Essay") || !strings.Contains(out, "Due soon!") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New("pager", nil); err == nil {
		t.Error("expected error")
	}
}
