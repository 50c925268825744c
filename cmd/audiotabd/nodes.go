package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newNodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Node type registry operations",
	}
	cmd.AddCommand(newNodesListCmd())
	return cmd
}

func newNodesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered node type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dataDir, verbose)
			if err != nil {
				return err
			}

			all := a.controller.GetNodeRegistry()
			sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

			out := cmd.OutOrStdout()
			for _, m := range all {
				fmt.Fprintf(out, "%-18s %-10s %s\n", m.ID, m.Kind(), m.DisplayName)
				for _, p := range m.Params {
					fmt.Fprintf(out, "    %-16s %-8s default=%v\n", p.Name, p.Type, p.Default)
				}
			}
			return nil
		},
	}
}
