package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ersonp/lexis/internal/infrastructure/telemetry"
	"github.com/ersonp/lexis/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serves the string API until interrupted. The listen address defaults to server.addr from the config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		if addr == "" {
			addr = d.Config.Server.Addr
		}

		shutdown, err := telemetry.Init(d.Config.Telemetry, version, os.Stdout)
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				d.Logger.Warn("shutting down telemetry", "error", err)
			}
		}()

		gin.SetMode(gin.ReleaseMode)
		srv := server.NewServer(d.service, d.Logger)
		return srv.Run(ctx, addr)
	})
}
