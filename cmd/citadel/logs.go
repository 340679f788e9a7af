package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/citadel/internal/config"
	"github.com/five82/citadel/internal/logging"
	"github.com/five82/citadel/internal/logtail"
)

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the citadel log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := logtail.Tail(cfg.Log.File, lines, logtail.MinLevel(logging.ParseLevel(level)))
			if err != nil {
				return err
			}
			for _, line := range out {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level: debug, info, warn or error")
	return cmd
}
