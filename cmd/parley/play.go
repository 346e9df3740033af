package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parley-dev/parley/internal/cli"
	"github.com/parley-dev/parley/internal/presentation/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the dialogue graph interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := openProject(cmd)
		if err != nil {
			return err
		}

		player, warnings, err := project.Player(cmd.Context())
		if err != nil {
			return err
		}
		for _, w := range warnings {
			cmd.PrintErrf("warning: %s\n", w)
		}

		tui.PrintBanner()

		session := &cli.PlaySession{
			Engine:       player,
			Renderer:     tui.NewRenderer(),
			Out:          os.Stdout,
			PollInterval: project.Config().PollInterval.Std(),
		}
		return session.Run(cmd.Context(), os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
