package main

import (
	"context"
	"os"
	"strings"

	"github.com/mohammad-safakhou/deepresearch/internal/agent/core"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/stream"
	"github.com/spf13/cobra"
)

func reportCMD(cfgPath *string) *cobra.Command {
	var depth, recursionLimit int
	var report = &cobra.Command{
		Use:   "report <topic>",
		Short: "Generate one report and stream it to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			in := core.Input{
				Topic:          strings.Join(args, " "),
				RecursionLimit: recursionLimit,
				PlanDepth:      depth,
			}
			w := stream.NewWriter(os.Stdout, nil)
			_, err = a.orch.RunStreaming(ctx, in, w)
			return err
		},
	}
	report.Flags().IntVar(&depth, "depth", 0, "number of planning queries (default report.plan_depth)")
	report.Flags().IntVar(&recursionLimit, "recursion-limit", 0, "maximum workflow steps (default report.recursion_limit)")
	return report
}
