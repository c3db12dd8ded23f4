package main

import (
	"log/slog"
	"strings"
	"sync"

	"crmlink/internal/config"
	"crmlink/internal/linker"
	"crmlink/internal/logging"
	"crmlink/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the store for one command invocation and closes it after.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withLinker wires the store, logger, and tie-break policy into a linker.
func (c *commandContext) withLinker(fn func(*config.Config, *store.Store, *linker.Linker) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		logger, err := c.newLogger(cfg)
		if err != nil {
			return err
		}
		tieBreak, ok := linker.ParseTieBreak(cfg.Linker.TieBreak)
		if !ok {
			// Validate() already rejects unknown values; guard anyway.
			tieBreak = linker.TieBreakEarliestCreated
		}
		l, err := linker.New(st, logger, tieBreak)
		if err != nil {
			return err
		}
		return fn(cfg, st, l)
	})
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg)
}
