package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var roleFlag string
	var configFlag string
	var bindFlag string

	rootCmd := &cobra.Command{
		Use:           "dubflowd",
		Short:         "Dubflow service daemon",
		Long:          "dubflowd serves the splitter trigger and the worker push endpoint for spreadsheet-driven video dubbing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), roleFlag, configFlag, bindFlag)
		},
	}

	rootCmd.Flags().StringVar(&roleFlag, "role", "both", "Entry points to serve: splitter, worker, or both")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&bindFlag, "bind", "", "Override the configured HTTP bind address")

	return rootCmd
}
