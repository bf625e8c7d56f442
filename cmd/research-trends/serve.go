// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-trends/internal/esearch"
	"github.com/pdiddy/research-trends/internal/scale"
	"github.com/pdiddy/research-trends/internal/schedule"
	"github.com/pdiddy/research-trends/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve trend searches over HTTP and WebSocket",
	Long: `Serve exposes trend searches to browsers and scripts:

  GET /api/v1/trend?term=...&start=...&finish=...   final report as JSON
  GET /api/v1/trend/stream                          WebSocket, one update per result
  GET /healthz                                      liveness
  GET /metrics                                      Prometheus metrics

Each WebSocket connection owns one session. A new submit on the connection
supersedes the previous search.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", defaultAddr, "listen address")
	if err := viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	palette, err := scale.PaletteFor(cfg.Trend.Palette)
	if err != nil {
		return err
	}

	sched := schedule.New(esearch.NewClient(cfg.ESearch), cfg.Trend)
	srv := server.New(sched, palette)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}
