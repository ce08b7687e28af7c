package main

import (
	"github.com/spf13/cobra"
)

func newMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "Print every member of the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			members, err := svc.GetAllMembers(cmd.Context())
			if err != nil {
				return err
			}
			a.cfg.Log.Info("Fetched members", "count", len(members))
			return writeJSON(cmd.OutOrStdout(), members)
		},
	}
}
