package main

import (
	"ViralGen/internal/di"
	"ViralGen/pkg/config"
	"ViralGen/pkg/server"

	"github.com/spf13/cobra"
)

type serviceSpec struct {
	use   string
	short string
	init  func(*config.Config) (*server.App, error)
}

var services = []serviceSpec{
	{"signals", "Run the market-signal engine and its dashboard", di.InitializeSignalsApp},
	{"factory", "Run the content factory API", di.InitializeFactoryApp},
	{"companion", "Run the auto-post companion node", di.InitializeCompanionApp},
	{"archiver", "Copy published results from Kafka into ClickHouse", di.InitializeArchiverApp},
}

func newServeCommands(ctx *commandContext) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(services))
	for _, s := range services {
		s := s
		cmds = append(cmds, &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				app, err := s.init(cfg)
				if err != nil {
					return err
				}
				return app.Run(cmd.Context())
			},
		})
	}
	return cmds
}
