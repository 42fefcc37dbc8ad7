package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/unidash/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
	newRequestIDFunc  = uuid.NewString
)

// Notification is a basic desktop notification.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (n Notification) String() string {
	if n.Body == "" {
		return n.Title
	}
	return n.Title + " - " + n.Body
}

// Notifier delivers notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// New returns the notifier for a notifications.mode value. Console output
// goes to w.
func New(mode string, w io.Writer) (Notifier, error) {
	switch mode {
	case constants.NotifyModeTray, "":
		return NewTray(), nil
	case constants.NotifyModeConsole:
		return NewConsole(w), nil
	}
	return nil, fmt.Errorf("unknown notification mode: %s", mode)
}

// TrayNotifier posts to the companion tray app, which shows the desktop
// notification. The tray app advertises itself through a lockfile holding
// "port|pid|secret".
type TrayNotifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTray() *TrayNotifier {
	return &TrayNotifier{client: &http.Client{Timeout: 5 * time.Second}}
}

func (t *TrayNotifier) Notify(ctx context.Context, n Notification) error {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      n.Title,
		Body:       n.Body,
		Text:       n.String(),
		DurationMs: constants.NotificationDurationMs,
	}
	return t.send(ctx, port, secret, payload)
}

// GetTrayAppConfigDir returns the directory holding the tray app's lockfile.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may move the lockfile elsewhere
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New(constants.TrayExecutablePrefix + " is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New(constants.TrayExecutablePrefix + " process not running")
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return port, secret, nil
}

func (t *TrayNotifier) send(ctx context.Context, port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.NotifySecretHeader, secret)
	req.Header.Set(constants.NotifyRequestIDHeader, newRequestIDFunc())

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

// ConsoleNotifier prints notifications instead of showing them.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Notify(ctx context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "[%s] %s\n    %s\n", time.Now().Format(constants.ClockFormat), n.Title, n.Body)
	return err
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
	Err  error
}

func (r *Recorder) Notify(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of the recorded notifications.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
