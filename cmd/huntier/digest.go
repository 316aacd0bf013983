package main

import (
	"context"
	"fmt"

	"huntier/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDigestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Send one digest of recent applicants and exit",
		Long: `Send one digest of applicants created within digest.lookback (default 24h) and exit.

Each run starts from now minus the lookback window and keeps no state between
runs, so running digest twice inside one window sends the same applicants again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			sent, err := runOnceManual(cmd.Context(), cfg, newAppBuilder(log))
			if err != nil {
				log.Error("digest failed", zap.Error(err))
				return err
			}
			log.Info("digest done", zap.Int("applicants", sent))
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d applicants\n", sent)
			return nil
		},
	}
}

// runOnceManual 构建依赖并执行一次摘要，结束后释放资源。
func runOnceManual(ctx context.Context, cfg config.AppConfig, build appBuilder) (int, error) {
	deps, cleanup, err := build(cfg)
	if err != nil {
		return 0, err
	}
	defer cleanup()
	if deps.sched == nil {
		return 0, fmt.Errorf("digest scheduler not configured")
	}
	return deps.sched.RunOnce(ctx)
}
