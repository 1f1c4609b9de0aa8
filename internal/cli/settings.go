package cli

import (
	"fmt"
	"sort"

	"github.com/julianstephens/focos/internal/models"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	values := models.SettingsToMap(store.Snapshot().Settings)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx.println("Current Settings:")
	for _, k := range keys {
		ctx.printf("  %-22s %s\n", k+":", values[k])
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name, e.g. focusDuration."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	patch, err := models.ParseSettingsPatch(c.Key, c.Value)
	if err != nil {
		return err
	}
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	if err := store.UpdateSettings(patch); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	values := models.SettingsToMap(store.Snapshot().Settings)
	ctx.printf("✓ %s = %s\n", c.Key, values[c.Key])
	return nil
}
