package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parley-dev/parley/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialogue graph as a Mermaid flowchart",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := openProject(cmd)
		if err != nil {
			return err
		}

		fmt.Print(graph.Mermaid(project.Graph(), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
