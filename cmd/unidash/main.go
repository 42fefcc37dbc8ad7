package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/unidash/internal/cli"
	"github.com/julianstephens/unidash/internal/config"
	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/errors"
	"github.com/julianstephens/unidash/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize unidash storage and write a default config."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Task   struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a new task."`
		Quick  cli.TaskQuickCmd  `cmd:"" help:"Add a task due in a week."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks by due date."`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Toggle a task's completed flag."`
		Edit   cli.TaskEditCmd   `cmd:"" help:"Edit an existing task."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
		Snooze cli.TaskSnoozeCmd `cmd:"" help:"Move a task's due date to tomorrow."`
	} `cmd:"" help:"Manage tasks."`
	Timer cli.TimerCmd `cmd:"" help:"Run the session timer in the foreground."`
	Note  struct {
		Save cli.NoteSaveCmd `cmd:"" help:"Save the note for a task."`
		Show cli.NoteShowCmd `cmd:"" help:"Show notes."`
	} `cmd:"" help:"Manage task notes."`
	Cite struct {
		Add  cli.CiteAddCmd  `cmd:"" help:"Add a citation and copy it."`
		List cli.CiteListCmd `cmd:"" help:"List citations."`
		Copy cli.CiteCopyCmd `cmd:"" help:"Copy a citation to the clipboard."`
	} `cmd:"" help:"Manage citations."`
	Timetable struct {
		Set  cli.TimetableSetCmd  `cmd:"" help:"Set or clear a timetable slot."`
		Show cli.TimetableShowCmd `cmd:"" help:"Show the weekly timetable." default:"1"`
		Save cli.TimetableSaveCmd `cmd:"" help:"Save the timetable and schedule class reminders."`
	} `cmd:"" help:"Manage the weekly timetable."`
	Reminder struct {
		Add  cli.ReminderAddCmd  `cmd:"" help:"Add a reminder."`
		List cli.ReminderListCmd `cmd:"" help:"List reminders." default:"1"`
	} `cmd:"" help:"Manage reminders."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show dashboard statistics."`
	Export cli.ExportCmd `cmd:"" help:"Export data to unidash-backup.csv."`
	Import cli.ImportCmd `cmd:"" help:"Import a YAML file or an export."`
	Clip   struct {
		Watch cli.ClipWatchCmd `cmd:"" help:"Watch the clipboard for copies to save."`
		Take  cli.ClipTakeCmd  `cmd:"" help:"Save, search or dismiss the staged copy."`
	} `cmd:"" help:"Copy saver."`
	Notify   cli.NotifyCmd   `cmd:"" help:"Deliver due alarms once (for cron)."`
	Daemon   cli.DaemonCmd   `cmd:"" help:"Deliver alarms and watch the clipboard in the background."`
	Serve    cli.ServeCmd    `cmd:"" help:"Serve the loopback HTTP bridge."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage timer settings."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Configure struct {
		Show      cli.ConfigShowCmd      `cmd:"" help:"Show the effective configuration." default:"1"`
		SetSync   cli.ConfigSetSyncCmd   `cmd:"" help:"Store the synced-store connection string in the OS keyring."`
		ClearSync cli.ConfigClearSyncCmd `cmd:"" help:"Remove the synced-store connection string from the OS keyring."`
	} `cmd:"" name:"config" help:"Manage configuration."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Student dashboard: tasks, focus timer, notes, citations and timetable"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	command := kctx.Selected()
	foreground := command != nil && (command.Name == "daemon" || command.Name == "serve")
	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir, Foreground: foreground}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx, err := cli.Open(ctx, cfg, CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	stop()
	errors.Fatal(err)
}
