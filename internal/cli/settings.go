package cli

import (
	"strconv"

	"github.com/julianstephens/unidash/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	PomodoroLength *int `help:"Work interval length in minutes."`
	BreakLength    *int `help:"Break length in minutes."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	values := map[string]string{}
	if c.PomodoroLength != nil {
		values[constants.SettingPomodoroLength] = strconv.Itoa(*c.PomodoroLength)
	}
	if c.BreakLength != nil {
		values[constants.SettingBreakLength] = strconv.Itoa(*c.BreakLength)
	}

	if c.List || len(values) == 0 {
		s := ctx.Service.Settings()
		ctx.println("Current Settings:")
		ctx.printf("  Pomodoro Length: %d min\n", s.PomodoroLength)
		ctx.printf("  Break Length:    %d min\n", s.BreakLength)
		if len(values) == 0 && !c.List {
			ctx.println("\nUse --pomodoro-length or --break-length to change them.")
		}
		return nil
	}

	if _, err := ctx.Service.UpdateSettings(ctx.Context(), values); err != nil {
		return err
	}
	ctx.println("Settings updated successfully.")
	return nil
}
