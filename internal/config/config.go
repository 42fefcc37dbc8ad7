// Package config loads the optional YAML configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/keyring"
	"github.com/julianstephens/unidash/internal/logger"
	"github.com/julianstephens/unidash/internal/storage/postgres"
)

type Config struct {
	DataDir       string              `yaml:"data_dir"`
	Debug         bool                `yaml:"debug"`
	Sync          SyncConfig          `yaml:"sync"`
	Local         LocalConfig         `yaml:"local"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Timetable     TimetableConfig     `yaml:"timetable"`
	Server        ServerConfig        `yaml:"server"`
	Daemon        DaemonConfig        `yaml:"daemon"`
	Clipboard     ClipboardConfig     `yaml:"clipboard"`
}

type SyncConfig struct {
	// DSN must not contain a password.
	DSN string `yaml:"dsn"`
}

type LocalConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "json"
}

type NotificationsConfig struct {
	Mode string `yaml:"mode"` // "tray" or "console"
}

type TimetableConfig struct {
	ReminderPolicy string `yaml:"reminder_policy"` // "offset" or "legacy"
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DaemonConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
}

type ClipboardConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
}

// Duration reads and writes Go duration strings such as "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		Local:         LocalConfig{Driver: constants.LocalDriverSQL},
		Notifications: NotificationsConfig{Mode: constants.NotifyModeTray},
		Timetable:     TimetableConfig{ReminderPolicy: constants.ReminderPolicyOffset},
		Server:        ServerConfig{Addr: constants.DefaultServerAddr},
		Daemon:        DaemonConfig{PollInterval: Duration{constants.DefaultAlarmPollInterval}},
		Clipboard:     ClipboardConfig{PollInterval: Duration{constants.DefaultClipboardPollInterval}},
	}
}

// DefaultDataDir is ~/.config/unidash.
func DefaultDataDir() string {
	return ExpandPath(constants.DefaultConfigDir)
}

// DefaultPath is the config file inside the default data directory.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), constants.DefaultConfigFile)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Load reads path on top of the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(ExpandPath(path))
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to open config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.DataDir = ExpandPath(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(constants.EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(constants.EnvSyncDSN); v != "" {
		c.Sync.DSN = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate rejects unknown enum values and connection strings with passwords.
func (c Config) Validate() error {
	switch c.Local.Driver {
	case constants.LocalDriverSQL, constants.LocalDriverJSON:
	default:
		return fmt.Errorf("invalid local.driver %q (must be sqlite or json)", c.Local.Driver)
	}
	switch c.Notifications.Mode {
	case constants.NotifyModeTray, constants.NotifyModeConsole:
	default:
		return fmt.Errorf("invalid notifications.mode %q (must be tray or console)", c.Notifications.Mode)
	}
	switch c.Timetable.ReminderPolicy {
	case constants.ReminderPolicyOffset, constants.ReminderPolicyLegacy:
	default:
		return fmt.Errorf("invalid timetable.reminder_policy %q (must be offset or legacy)", c.Timetable.ReminderPolicy)
	}
	if c.Daemon.PollInterval.Duration <= 0 {
		return fmt.Errorf("daemon.poll_interval must be positive")
	}
	if c.Clipboard.PollInterval.Duration <= 0 {
		return fmt.Errorf("clipboard.poll_interval must be positive")
	}
	if c.Sync.DSN != "" {
		if err := postgres.ValidateConnString(c.Sync.DSN); err != nil {
			return fmt.Errorf("sync.dsn: %w", err)
		}
	}
	return nil
}

// SyncDSN returns the synced-store connection string and where it came
// from. The OS keyring is consulted when neither the file nor the
// environment set one. An empty result means local-only mode.
func (c Config) SyncDSN() (dsn string, source string) {
	if c.Sync.DSN != "" {
		if os.Getenv(constants.EnvSyncDSN) != "" {
			return c.Sync.DSN, "env"
		}
		return c.Sync.DSN, "config"
	}

	dsn, err := keyring.SyncDSN.Get()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		return "", ""
	}
	return dsn, "keyring"
}

// LocalPath is the local store file for the configured driver.
func (c Config) LocalPath() string {
	if c.Local.Driver == constants.LocalDriverJSON {
		return filepath.Join(c.DataDir, constants.JSONFileName)
	}
	return filepath.Join(c.DataDir, constants.SQLiteFileName)
}

// Save writes c as YAML, creating the parent directory.
func (c Config) Save(path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
