package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes per spec §6.
const (
	exitSuccess      = 0
	exitInvalidGraph = 1
	exitDeviceError  = 2
	exitRuntimeFault = 3
)

var (
	dataDir string
	verbose bool
)

// NewRootCmd builds the audiotabd command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audiotabd",
		Short: "Streaming multi-physics analysis engine daemon",
		Long: `audiotabd hosts the node registry, pipeline pool, and hardware
abstraction layer described in the runtime control surface: deploying
graphs, listing node types, discovering hardware, and serving the
pipeline-status event stream to external dashboards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "application data directory (device profiles, persisted state)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	cmd.AddCommand(newGraphCmd())
	cmd.AddCommand(newNodesCmd())
	cmd.AddCommand(newHardwareCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/audiotab"
	}
	return ".audiotab"
}

// Execute runs the command tree and maps the result to a spec §6 exit
// code. Errors tagged with an errkind sentinel via errors.Is drive the
// specific codes; anything else is a runtime fault.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "audiotabd:", err)
		return exitCodeFor(err)
	}
	return exitSuccess
}
