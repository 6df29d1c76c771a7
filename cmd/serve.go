package main

import (
	"context"
	"time"

	srv "github.com/mohammad-safakhou/deepresearch/internal/server"
	"github.com/spf13/cobra"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the streaming report HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			addr := a.cfg.Server.Address
			if cmd.Flags().Changed("addr") {
				addr = serveAddr
			}
			e := srv.New(a.orch, srv.Defaults{
				RecursionLimit: a.cfg.Report.RecursionLimit,
				PlanDepth:      a.cfg.Report.PlanDepth,
			}, a.registry, a.logger)
			return srv.Run(ctx, e, addr, 30*time.Second, a.logger)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", ":10001", "listen address (overrides server.address)")
	return serve
}
