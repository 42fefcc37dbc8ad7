package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/unidash/internal/constants"
)

// Settings is the static timer configuration.
type Settings struct {
	PomodoroLength int `json:"pomodoroLength"` // minutes of focused work
	BreakLength    int `json:"breakLength"`    // minutes of break
}

func DefaultSettings() Settings {
	return Settings{
		PomodoroLength: constants.DefaultPomodoroLength,
		BreakLength:    constants.DefaultBreakLength,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.PomodoroLength <= 0 {
		settings.PomodoroLength = constants.DefaultPomodoroLength
	}
	if settings.BreakLength <= 0 {
		settings.BreakLength = constants.DefaultBreakLength
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}
	for key, value := range data {
		switch key {
		case constants.SettingPomodoroLength:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.PomodoroLength = n
		case constants.SettingBreakLength:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.BreakLength = n
		default:
			return Settings{}, fmt.Errorf("unknown setting: %s", key)
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingPomodoroLength: strconv.Itoa(settings.PomodoroLength),
		constants.SettingBreakLength:    strconv.Itoa(settings.BreakLength),
	}
}
