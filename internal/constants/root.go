package constants

import "time"

const (
	AppName            = "unidash"
	Version            = "v0.3.0"
	DefaultKeyringUser = "sync-connection"
	DefaultConfigDir   = "~/.config/unidash"
	DefaultConfigFile  = "config.yaml"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// ClockFormat is the wall-clock format used for reminder timestamps (HH:MM:SS)
	ClockFormat = "15:04:05"

	// Storage constants
	SQLiteFileName  = "unidash.db"
	JSONFileName    = "unidash.json"
	LocalDataKey    = "unidashData"
	LocalDriverSQL  = "sqlite"
	LocalDriverJSON = "json"

	// Backup / export constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "unidash-"
	BackupFileSuffix = ".db"
	ExportFileName   = "unidash-backup.csv"

	// Notify constants
	NotifierLockfileName   = "unidash-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.unidash"
	TrayExecutablePrefix   = "unidash-tray"
	NotifySecretHeader     = "X-Unidash-Secret"
	NotifyRequestIDHeader  = "X-Unidash-Request-Id"

	// Alarm name prefixes
	DeadlineAlarmPrefix  = "deadline-"
	TimetableAlarmPrefix = "timetable-"

	// Alarm lead times
	DeadlineLead      = 24 * time.Hour
	ClassReminderLead = 5 * time.Minute

	// Background loop intervals
	DefaultAlarmPollInterval     = 30 * time.Second
	DefaultClipboardPollInterval = time.Second

	// Timer constants
	TickInterval = time.Second
	ResumeDelay  = time.Second

	// Copy saver
	MinCopiedTextLength = 5
	CopiedPreviewLength = 50
	SearchURLPrefix     = "https://www.google.com/search?q="

	// Quick add / snooze
	QuickAddDueIn = 7 * 24 * time.Hour
	SnoozeFor     = 24 * time.Hour
	UpcomingLimit = 5

	// Server
	DefaultServerAddr = "127.0.0.1:7878"
)
