package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parley-dev/parley/pkg/ports"
)

var revisionsCmd = &cobra.Command{
	Use:   "revisions",
	Short: "List saved graph revisions (sqlite backend only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := openProject(cmd)
		if err != nil {
			return err
		}

		revisioned, ok := project.Store().(ports.Revisioned)
		if !ok {
			return fmt.Errorf("the %q backend does not keep revisions; use the sqlite backend",
				project.Config().Store.Backend)
		}

		revisions, err := revisioned.Revisions(cmd.Context())
		if err != nil {
			return err
		}
		if len(revisions) == 0 {
			fmt.Println("no revisions yet")
			return nil
		}

		for _, rev := range revisions {
			fmt.Printf("%6d  %s  %d bytes\n", rev.ID, rev.SavedAt, rev.Size)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revisionsCmd)
}
