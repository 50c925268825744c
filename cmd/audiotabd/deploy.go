package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/graph"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Graph document operations",
	}
	cmd.AddCommand(newGraphDeployCmd())
	return cmd
}

func newGraphDeployCmd() *cobra.Command {
	var pipelineID string

	cmd := &cobra.Command{
		Use:   "deploy <graph.json>",
		Short: "Validate, instantiate, and start a graph document as a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var doc graph.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("%w: parsing graph document: %s", errkind.ErrInvalidGraph, err)
			}

			a, err := newApp(dataDir, verbose)
			if err != nil {
				return err
			}

			id, err := a.controller.DeployGraph(cmd.Context(), pipelineID, doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)

			// Block until the process is signaled to stop; a deployed
			// pipeline keeps running in its own goroutines regardless.
			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&pipelineID, "id", "", "pipeline instance id (generated if omitted)")
	return cmd
}
