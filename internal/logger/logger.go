package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	Debug   bool
	DataDir string
	// Foreground also mirrors records to stderr outside debug mode. Long running
	// commands (daemon, serve) set it so operators see warnings.
	Foreground bool
}

// LogFileName is the name of the rotating log file inside <DataDir>/logs.
const LogFileName = "unidash.log"

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.DataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	var writer io.Writer = fileWriter
	if cfg.Debug || cfg.Foreground {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "unidash",
	})

	return nil
}

// UseWriter points the global logger at w. Tests use it to capture output.
func UseWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "unidash",
	})
}

// Component returns a child logger whose prefix names a subsystem
// ("timer", "alarms", ...). It returns nil before Init.
func Component(name string) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.WithPrefix("unidash/" + name)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
