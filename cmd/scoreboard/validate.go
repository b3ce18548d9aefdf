package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marocz/scoreboard/internal/config"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config %s is valid\n", root.configPath)
			for _, p := range cfg.Display.PageTable() {
				opt := ""
				if p.Optional {
					opt = " (optional)"
				}
				fmt.Fprintf(out, "  %-10s %-5s %s%s\n", p.ID, p.DisplayType, p.SourceLocator, opt)
			}
			return nil
		},
	}
}
