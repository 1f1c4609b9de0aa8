package constants

const (
	// Settings field names, used by `focos settings set`
	SettingFocusDuration        = "focusDuration"
	SettingBreakDuration        = "breakDuration"
	SettingSoundEnabled         = "soundEnabled"
	SettingFocusSound           = "focusSound"
	SettingPrimaryColor         = "primaryColor"
	SettingAppName              = "appName"
	SettingNotificationsEnabled = "notificationsEnabled"
	SettingDistractionFreeMode  = "distractionFreeMode"
	SettingDivineMode           = "divineMode"
	SettingDevotionalMode       = "devotionalMode"
	SettingDarkMode             = "darkMode"

	// Default Settings Values
	DefaultFocusDuration        = 25
	DefaultBreakDuration        = 5
	DefaultSoundEnabled         = true
	DefaultFocusSound           = "rain"
	DefaultPrimaryColor         = "#7c3aed"
	DefaultAppName              = DisplayName
	DefaultNotificationsEnabled = true
)

// FocusSounds lists the ambient tracks the player knows about.
var FocusSounds = []string{"rain", "forest", "waves", "cafe", "white-noise", "none"}
