package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scoutnet/internal/roster/service"
)

func newListsCmd(a *app) *cobra.Command {
	var (
		limit     int
		noMembers bool
		listIDs   []int
	)

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Print every addressable custom list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			opts := service.DefaultListOptions()
			opts.Limit = limit
			opts.FetchMembers = !noMembers
			opts.ListIDs = listIDs

			lists, err := svc.GetAllLists(cmd.Context(), opts)
			if err != nil {
				return err
			}
			a.cfg.Log.Info("Fetched lists", "count", lists.Len())
			return writeJSON(cmd.OutOrStdout(), lists)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "stop after considering this many lists (0 for all)")
	cmd.Flags().BoolVar(&noMembers, "no-members", false, "skip member fetches; print titles and aliases only")
	cmd.Flags().IntSliceVar(&listIDs, "list-id", nil, "only consider these list ids (repeatable)")
	return cmd
}
