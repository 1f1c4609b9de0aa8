package cli

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/state"
	"github.com/julianstephens/focos/internal/storage"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" help:"Show storage location and backend."`
	Keys   *DebugKeysCmd   `cmd:"" help:"List stored keys."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump raw stored values as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	path := ctx.Provider.GetConfigPath()
	return ctx.printJSON(map[string]string{
		"path":    path,
		"backend": string(storage.KindOf(ctx.Provider)),
	})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		ctx.println(k)
	}
	return nil
}

// DebugDumpCmd prints stored values as they are on disk, without running
// the rollover a normal load would.
type DebugDumpCmd struct {
	Key string `arg:"" optional:"" help:"Only dump this key."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	keys := state.AllSlices
	if cmd.Key != "" {
		keys = []string{cmd.Key}
	}

	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, err := ctx.Provider.Get(k)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				if cmd.Key != "" {
					return fmt.Errorf("key not found: %s", k)
				}
				continue
			}
			return err
		}
		if json.Valid([]byte(raw)) {
			out[k] = json.RawMessage(raw)
			continue
		}
		quoted, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		out[k] = quoted
	}
	return ctx.printJSON(out)
}

func (c *Context) printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}
