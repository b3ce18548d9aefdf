package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marocz/scoreboard/internal/config"
	"github.com/marocz/scoreboard/internal/poll"
	"github.com/marocz/scoreboard/internal/records"
	"github.com/marocz/scoreboard/internal/sheets"
	"github.com/marocz/scoreboard/pkg/types"
)

// fetchResult is what fetch prints.
type fetchResult struct {
	Page    types.PageID      `json:"page"`
	Type    types.DisplayType `json:"display_type"`
	Mode    types.RankingMode `json:"mode"`
	Outcome string            `json:"outcome"`
	Records records.Set       `json:"records"`
}

func newFetchCommand(root *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "fetch <page-id>",
		Short: "Poll one page once and print its normalized records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			installLogger(cmd.ErrOrStderr())

			m, err := types.ParseRankingMode(mode)
			if err != nil {
				return err
			}
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			pages := cfg.Display.PageTable()
			id := types.PageID(args[0])
			page, ok := pages.Lookup(id)
			if !ok {
				return fmt.Errorf("fetch: unknown page %q", id)
			}

			client, err := sheets.New(cfg.Source)
			if err != nil {
				return err
			}
			c := poll.New(pages, client)
			outcome := c.Poll(cmd.Context(), id, m)
			if outcome == poll.OutcomeFailed {
				return fmt.Errorf("fetch: poll of %q failed", id)
			}

			res := fetchResult{Page: id, Type: page.DisplayType, Mode: m, Outcome: outcome.String()}
			if set, ok := c.Committed(id); ok {
				res.Records = set
			} else {
				res.Records = records.Normalize(page.DisplayType, nil)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(types.ModeTotal), "ranking mode used to sort chart pages (total|percent)")
	return cmd
}
