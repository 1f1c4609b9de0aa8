package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focos/internal/constants"
	"github.com/julianstephens/focos/internal/models"
)

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(notEmpty("habit name")),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&fm.Title).
				Validate(notEmpty("task title")),
		),
	).WithTheme(huh.ThemeDracula())
}

func newSettingsFormModel(s models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		FocusDuration:        strconv.Itoa(s.FocusDuration),
		BreakDuration:        strconv.Itoa(s.BreakDuration),
		SoundEnabled:         s.SoundEnabled,
		FocusSound:           s.FocusSound,
		PrimaryColor:         s.PrimaryColor,
		AppName:              s.AppName,
		NotificationsEnabled: s.NotificationsEnabled,
		DarkMode:             s.DarkMode,
		DivineMode:           s.DivineMode,
		DevotionalMode:       s.DevotionalMode,
	}
}

func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	soundOptions := make([]huh.Option[string], 0, len(constants.FocusSounds))
	for _, s := range constants.FocusSounds {
		soundOptions = append(soundOptions, huh.NewOption(s, s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus Duration (min)").
				Value(&fm.FocusDuration).
				Validate(positiveMinutes),
			huh.NewInput().
				Title("Break Duration (min)").
				Value(&fm.BreakDuration).
				Validate(positiveMinutes),
			huh.NewConfirm().
				Title("Ambient Sound").
				Value(&fm.SoundEnabled),
			huh.NewSelect[string]().
				Title("Focus Sound").
				Options(soundOptions...).
				Value(&fm.FocusSound),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("App Name").
				Value(&fm.AppName).
				Validate(notEmpty("app name")),
			huh.NewInput().
				Title("Primary Color").
				Description("Hex color, e.g. #7c3aed").
				Value(&fm.PrimaryColor),
			huh.NewConfirm().
				Title("Notifications").
				Value(&fm.NotificationsEnabled),
			huh.NewConfirm().
				Title("Dark Mode").
				Value(&fm.DarkMode),
			huh.NewConfirm().
				Title("Divine Mode").
				Value(&fm.DivineMode),
			huh.NewConfirm().
				Title("Devotional Mode").
				Description("Turns on divine mode as well").
				Value(&fm.DevotionalMode),
		),
	).WithTheme(huh.ThemeDracula())
}

// Patch converts the form into a settings patch. Durations were validated by
// the form.
func (fm *SettingsFormModel) Patch() (models.SettingsPatch, error) {
	focusMin, err := strconv.Atoi(strings.TrimSpace(fm.FocusDuration))
	if err != nil {
		return models.SettingsPatch{}, fmt.Errorf("focus duration: %w", err)
	}
	breakMin, err := strconv.Atoi(strings.TrimSpace(fm.BreakDuration))
	if err != nil {
		return models.SettingsPatch{}, fmt.Errorf("break duration: %w", err)
	}
	appName := strings.TrimSpace(fm.AppName)
	color := strings.TrimSpace(fm.PrimaryColor)

	patch := models.SettingsPatch{
		FocusDuration:        &focusMin,
		BreakDuration:        &breakMin,
		SoundEnabled:         &fm.SoundEnabled,
		FocusSound:           &fm.FocusSound,
		PrimaryColor:         &color,
		AppName:              &appName,
		NotificationsEnabled: &fm.NotificationsEnabled,
		DarkMode:             &fm.DarkMode,
		DivineMode:           &fm.DivineMode,
		DevotionalMode:       &fm.DevotionalMode,
	}
	return patch, patch.Validate()
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func positiveMinutes(s string) error {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if i <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}
	return nil
}
