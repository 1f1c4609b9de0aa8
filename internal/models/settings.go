package models

import "github.com/julianstephens/focos/internal/constants"

// Settings represents application-wide settings. The JSON field names are the
// on-disk format and must not change.
type Settings struct {
	FocusDuration        int    `json:"focusDuration"`        // focus block length in minutes
	BreakDuration        int    `json:"breakDuration"`        // break length in minutes
	SoundEnabled         bool   `json:"soundEnabled"`         // whether ambient sound plays
	FocusSound           string `json:"focusSound"`           // ambient track tag, e.g. "rain"
	PrimaryColor         string `json:"primaryColor"`         // accent color, e.g. "#7c3aed"
	AppName              string `json:"appName"`              // display name
	NotificationsEnabled bool   `json:"notificationsEnabled"` // whether reminders fire
	DistractionFreeMode  bool   `json:"distractionFreeMode"`  // hides everything but the timer
	DivineMode           bool   `json:"divineMode"`           // spiritual theme
	DevotionalMode       bool   `json:"devotionalMode"`       // devotional content; implies DivineMode
	DarkMode             bool   `json:"darkMode"`
}

// SettingsPatch is a partial Settings update. Nil fields are left untouched.
type SettingsPatch struct {
	FocusDuration        *int    `json:"focusDuration,omitempty"`
	BreakDuration        *int    `json:"breakDuration,omitempty"`
	SoundEnabled         *bool   `json:"soundEnabled,omitempty"`
	FocusSound           *string `json:"focusSound,omitempty"`
	PrimaryColor         *string `json:"primaryColor,omitempty"`
	AppName              *string `json:"appName,omitempty"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	DistractionFreeMode  *bool   `json:"distractionFreeMode,omitempty"`
	DivineMode           *bool   `json:"divineMode,omitempty"`
	DevotionalMode       *bool   `json:"devotionalMode,omitempty"`
	DarkMode             *bool   `json:"darkMode,omitempty"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		FocusDuration:        constants.DefaultFocusDuration,
		BreakDuration:        constants.DefaultBreakDuration,
		SoundEnabled:         constants.DefaultSoundEnabled,
		FocusSound:           constants.DefaultFocusSound,
		PrimaryColor:         constants.DefaultPrimaryColor,
		AppName:              constants.DefaultAppName,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// Apply shallow-merges p into s and returns the result. Devotional mode always
// drags divine mode along with it.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.FocusDuration != nil {
		s.FocusDuration = *p.FocusDuration
	}
	if p.BreakDuration != nil {
		s.BreakDuration = *p.BreakDuration
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.FocusSound != nil {
		s.FocusSound = *p.FocusSound
	}
	if p.PrimaryColor != nil {
		s.PrimaryColor = *p.PrimaryColor
	}
	if p.AppName != nil {
		s.AppName = *p.AppName
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.DistractionFreeMode != nil {
		s.DistractionFreeMode = *p.DistractionFreeMode
	}
	if p.DivineMode != nil {
		s.DivineMode = *p.DivineMode
	}
	if p.DevotionalMode != nil {
		s.DevotionalMode = *p.DevotionalMode
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	return s.Normalize()
}

// Normalize enforces the flag coupling between devotional and divine mode.
func (s Settings) Normalize() Settings {
	if s.DevotionalMode {
		s.DivineMode = true
	}
	return s
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p == SettingsPatch{}
}
