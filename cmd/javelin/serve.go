package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"javelin/internal/engine"
	"javelin/internal/remote"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve the evaluation engine over WebSocket",
	Long:  `Expose an /evaluate WebSocket endpoint; every connection gets an independent session`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8537, or [serve].addr from javelin.toml)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("failed to get addr flag: %w", err)
	}

	opts, manifest, err := sessionOptions()
	if err != nil {
		return err
	}
	if addr == "" && manifest != nil {
		addr = manifest.Config.Serve.Addr
	}
	if addr == "" {
		addr = ":8537"
	}

	server := remote.NewServer(func() (*engine.Engine, error) {
		return engine.New(opts)
	})

	fmt.Printf("listening on %s\n", addr)
	return http.ListenAndServe(addr, server.Handler())
}
