package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/focos/internal/constants"
)

// ParseSettingsPatch builds a single-field patch from a settings key and its
// textual value, as typed on the command line.
func ParseSettingsPatch(key, value string) (SettingsPatch, error) {
	var patch SettingsPatch
	value = strings.TrimSpace(value)

	parseInt := func() (*int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%s must be a positive number of minutes", key)
		}
		return &n, nil
	}
	parseBool := func() (*bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		return &b, nil
	}

	var err error
	switch key {
	case constants.SettingFocusDuration:
		patch.FocusDuration, err = parseInt()
	case constants.SettingBreakDuration:
		patch.BreakDuration, err = parseInt()
	case constants.SettingSoundEnabled:
		patch.SoundEnabled, err = parseBool()
	case constants.SettingFocusSound:
		if !isKnownSound(value) {
			return SettingsPatch{}, fmt.Errorf("unknown focus sound %q (expected one of %s)", value, strings.Join(constants.FocusSounds, ", "))
		}
		patch.FocusSound = &value
	case constants.SettingPrimaryColor:
		patch.PrimaryColor = &value
	case constants.SettingAppName:
		if value == "" {
			return SettingsPatch{}, fmt.Errorf("appName cannot be empty")
		}
		patch.AppName = &value
	case constants.SettingNotificationsEnabled:
		patch.NotificationsEnabled, err = parseBool()
	case constants.SettingDistractionFreeMode:
		patch.DistractionFreeMode, err = parseBool()
	case constants.SettingDivineMode:
		patch.DivineMode, err = parseBool()
	case constants.SettingDevotionalMode:
		patch.DevotionalMode, err = parseBool()
	case constants.SettingDarkMode:
		patch.DarkMode, err = parseBool()
	default:
		return SettingsPatch{}, fmt.Errorf("unknown setting: %s", key)
	}
	if err != nil {
		return SettingsPatch{}, err
	}
	return patch, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingFocusDuration:        strconv.Itoa(settings.FocusDuration),
		constants.SettingBreakDuration:        strconv.Itoa(settings.BreakDuration),
		constants.SettingSoundEnabled:         strconv.FormatBool(settings.SoundEnabled),
		constants.SettingFocusSound:           settings.FocusSound,
		constants.SettingPrimaryColor:         settings.PrimaryColor,
		constants.SettingAppName:              settings.AppName,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingDistractionFreeMode:  strconv.FormatBool(settings.DistractionFreeMode),
		constants.SettingDivineMode:           strconv.FormatBool(settings.DivineMode),
		constants.SettingDevotionalMode:       strconv.FormatBool(settings.DevotionalMode),
		constants.SettingDarkMode:             strconv.FormatBool(settings.DarkMode),
	}
}

func isKnownSound(s string) bool {
	for _, known := range constants.FocusSounds {
		if s == known {
			return true
		}
	}
	return false
}

// Validate rejects values ParseSettingsPatch would also reject.
func (p SettingsPatch) Validate() error {
	if p.FocusDuration != nil && *p.FocusDuration <= 0 {
		return fmt.Errorf("%s must be a positive number of minutes", constants.SettingFocusDuration)
	}
	if p.BreakDuration != nil && *p.BreakDuration <= 0 {
		return fmt.Errorf("%s must be a positive number of minutes", constants.SettingBreakDuration)
	}
	if p.FocusSound != nil && !isKnownSound(*p.FocusSound) {
		return fmt.Errorf("unknown focus sound %q", *p.FocusSound)
	}
	if p.AppName != nil && strings.TrimSpace(*p.AppName) == "" {
		return fmt.Errorf("appName cannot be empty")
	}
	return nil
}
