package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parley-dev/parley"
	"github.com/parley-dev/parley/internal/config"
	"github.com/parley-dev/parley/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley is a branching dialogue graph engine",
	Long: `Parley lets you build a branching dialogue graph through incremental
edit commands, persist it durably, and play it back interactively.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the Parley project")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides parley.yaml")
}

// openProject loads the project for the command's --dir, with a logger built
// from the configured or flag-overridden level.
func openProject(cmd *cobra.Command, opts ...parley.Option) (*parley.Project, error) {
	dir, _ := cmd.Flags().GetString("dir")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	if err != nil {
		return nil, err
	}
	if level == "" {
		level = cfg.LogLevel
	}
	logger := logging.New(logging.ParseLevel(level))

	withLogger := append([]parley.Option{parley.WithLogger(logger)}, opts...)
	project, err := parley.Open(dir, withLogger...)
	if err != nil {
		return nil, err
	}

	for _, w := range project.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return project, nil
}
