package main

import (
	"fmt"
	"os"

	"huntier/internal/config"
	"huntier/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const app = "huntier"

type rootOptions struct {
	configPath string
	debug      bool
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          app,
		Short:        "huntier collects job applications and ranks openings for candidates",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env 可选
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "a config file (default is $CONFIG_FILE or config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	cmd.AddCommand(newServeCmd(opts), newMatchCmd(opts), newDigestCmd(opts))
	return cmd
}

func (o *rootOptions) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if env := os.Getenv("CONFIG_FILE"); env != "" {
		return env
	}
	return config.DefaultPath
}

// setup 加载配置并构造日志，命令行开关优先于配置文件。
func (o *rootOptions) setup() (config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(o.resolveConfigPath())
	if err != nil {
		return config.AppConfig{}, nil, fmt.Errorf("load config: %w", err)
	}
	if o.debug {
		cfg.Log.Debug = true
	}
	if o.json {
		cfg.Log.JSON = true
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return config.AppConfig{}, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, log, nil
}
