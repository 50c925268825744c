package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/FYZAFH/audiotab/core/control"
	"github.com/FYZAFH/audiotab/core/graph"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the runtime control surface (§6) over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dataDir, verbose)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			go a.controller.WatchStates(ctx)
			go func() {
				if err := a.devices.Watch(ctx); err != nil && ctx.Err() == nil {
					fmt.Println("audiotabd: device profile watch stopped:", err)
				}
			}()

			srv := &http.Server{
				Addr:    addr,
				Handler: newMux(a.controller),
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	return cmd
}

// newMux wires the runtime control surface's HTTP bindings: graph
// deployment, registry/state/hardware enumeration, and the
// pipeline-status WebSocket event stream.
func newMux(c *control.Controller) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/nodes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, c.GetNodeRegistry())
	})

	mux.HandleFunc("/v1/pipelines", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, c.GetAllPipelineStates())
		case http.MethodPost:
			var doc graph.Document
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			id, err := c.DeployGraph(r.Context(), "", doc)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			writeJSON(w, map[string]string{"pipeline_id": id})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/hardware", func(w http.ResponseWriter, r *http.Request) {
		devices, err := c.DiscoverHardware(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, devices)
	})

	mux.HandleFunc("/v1/events", func(w http.ResponseWriter, r *http.Request) {
		if err := c.Hub().ServeWS(w, r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Println("audiotabd: encoding response:", err)
	}
}
