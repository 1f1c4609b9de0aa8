package cli

import (
	"fmt"

	apperrors "github.com/julianstephens/focos/internal/errors"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Init(); err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyInitialized) {
			ctx.printf("Storage already initialized at: %s\n", ctx.Provider.GetConfigPath())
			return nil
		}
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	ctx.printf("Initialized focos storage at: %s\n", ctx.Provider.GetConfigPath())
	return nil
}
