package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scoutnet/internal/roster/fetcher"
)

func newDumpCmd(a *app) *cobra.Command {
	var withLists bool

	cmd := &cobra.Command{
		Use:   "dump NAME",
		Short: "Capture the raw roster and custom list payloads under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if a.opts.restore != "" {
				return fmt.Errorf("dump cannot be combined with --restore")
			}

			store, err := a.dumpStore(cmd.Context())
			if err != nil {
				return err
			}
			d, err := fetcher.Capture(cmd.Context(), a.live, withLists)
			if err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), name, d); err != nil {
				return err
			}

			a.cfg.Log.Info("Saved dump", "name", name, "store", a.opts.store, "lists", len(d.Lists))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		},
	}

	cmd.Flags().BoolVar(&withLists, "with-lists", false, "also capture every list's member payload")
	return cmd
}
