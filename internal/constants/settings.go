package constants

const (
	// Setting keys
	SettingPomodoroLength = "pomodoro_length"
	SettingBreakLength    = "break_length"

	// Default Settings Values
	DefaultPomodoroLength = 25
	DefaultBreakLength    = 5

	// Reminder policies for timetable alarms
	ReminderPolicyOffset = "offset"
	ReminderPolicyLegacy = "legacy"

	// Notification modes
	NotifyModeTray    = "tray"
	NotifyModeConsole = "console"

	// Environment overrides
	EnvDataDir = "UNIDASH_DATA_DIR"
	EnvSyncDSN = "UNIDASH_SYNC_DSN"
	EnvDebug   = "UNIDASH_DEBUG"
)
