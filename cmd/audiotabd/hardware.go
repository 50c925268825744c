package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FYZAFH/audiotab/core/errkind"
)

func newHardwareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Hardware driver operations",
	}
	cmd.AddCommand(newHardwareDiscoverCmd())
	return cmd
}

func newHardwareDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Enumerate devices across every registered hardware driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dataDir, verbose)
			if err != nil {
				return err
			}

			devices, err := a.controller.DiscoverHardware(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %s", errkind.ErrDeviceError, err)
			}

			out := cmd.OutOrStdout()
			for _, d := range devices {
				fmt.Fprintf(out, "%-10s %-16s %-8s %s\n", d.DriverID, d.DeviceID, d.Direction, d.Name)
			}
			return nil
		},
	}
}
