package main

import (
	"context"
	"fmt"

	"dubflow/internal/config"
	"dubflow/internal/sheets"
)

// commandContext shares lazily-loaded configuration and the sheet client
// factory across subcommands. Tests swap newClient for a fake.
type commandContext struct {
	configFlag *string

	cfg       *config.Config
	newClient func(ctx context.Context) (sheets.Client, error)
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		newClient: func(ctx context.Context) (sheets.Client, error) {
			return sheets.NewGoogleClient(ctx)
		},
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}
