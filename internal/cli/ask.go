package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/focos/internal/assistant"
)

// AskCmd sends one question to the configured assistant endpoint.
type AskCmd struct {
	Question []string `arg:"" help:"Question to ask."`
}

func (c *AskCmd) Run(ctx *Context) error {
	question := strings.TrimSpace(strings.Join(c.Question, " "))
	if question == "" {
		return assistant.ErrEmptyQuestion
	}
	if ctx.Config.Assistant.Endpoint == "" {
		return fmt.Errorf("assistant endpoint is not configured")
	}
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.Assistant.Timeout)
	defer cancel()

	answer, err := assistant.New(ctx.Config.Assistant).Ask(reqCtx, store.Snapshot().Settings, question)
	if err != nil {
		return fmt.Errorf("assistant: %w", err)
	}
	ctx.println(answer)
	return nil
}
