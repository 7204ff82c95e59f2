package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"phrasecut/internal/catalog"
	"phrasecut/internal/config"
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

// withStore opens the catalog for the resolved config, runs fn, and closes
// it again.
func (c *commandContext) withStore(fn func(*config.Config, *catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "phrasecut",
		Short:         "Extract idiom clips from a media library",
		Long:          "Phrasecut watches a media directory, transcribes new episodes, finds idioms in the transcripts, and renders a padded clip for every occurrence.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")

	ctx := newCommandContext(&configPath)

	root.AddCommand(newRunCommand(ctx))
	root.AddCommand(newStatusCommand(ctx))
	root.AddCommand(newFrequencyCommand(ctx))
	root.AddCommand(newClipsCommand(ctx))
	root.AddCommand(newHealthCommand(ctx))
	root.AddCommand(newConfigCommand(ctx))

	return root
}
