package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parley-dev/parley/internal/cli"
	"github.com/parley-dev/parley/internal/presentation/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the dialogue graph interactively",
	Long: `Opens the edit REPL. Type help for the command list; changes autosave
after the configured debounce and are flushed on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := openProject(cmd)
		if err != nil {
			return err
		}

		tui.PrintBanner()
		fmt.Println("editing; type help for commands")

		session := &cli.EditSession{
			Editor:       project.Editor(),
			Renderer:     tui.NewRenderer(),
			Out:          os.Stdout,
			TickInterval: project.Config().TickInterval.Std(),
		}
		return session.Run(cmd.Context(), os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
