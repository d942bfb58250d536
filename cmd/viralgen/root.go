package main

import (
	"strings"
	"sync"

	"ViralGen/pkg/config"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string

	once   sync.Once
	config *config.Config
	err    error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		c.config, c.err = config.LoadWithEnv(strings.TrimSpace(*c.configFlag))
	})
	return c.config, c.err
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	root := &cobra.Command{
		Use:           "viralgen",
		Short:         "Autonomous content factory and market-signal engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "config/config.yaml", "Configuration file path")

	for _, cmd := range newServeCommands(ctx) {
		root.AddCommand(cmd)
	}
	root.AddCommand(newWAVCommand())
	root.AddCommand(newStatusCommand())
	return root
}
