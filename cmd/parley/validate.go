package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parley-dev/parley/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the graph for invalid nodes, dangling links, and unreachable nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := openProject(cmd)
		if err != nil {
			return err
		}

		report := validator.Check(project.Graph())
		if report.Clean() {
			fmt.Println("graph is clean")
			return nil
		}

		for _, verr := range report.Invalid {
			fmt.Printf("invalid: %s\n", verr.Error())
		}
		for _, ref := range report.Dangling {
			fmt.Printf("dangling: %s\n", ref)
		}
		for _, id := range report.Unreachable {
			fmt.Printf("unreachable: %s\n", id)
		}

		return fmt.Errorf("found %d invalid node(s), %d dangling link(s), %d unreachable node(s)",
			len(report.Invalid), len(report.Dangling), len(report.Unreachable))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
