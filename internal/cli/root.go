package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/app"
	"github.com/samvad-hq/samvad-httpkit/internal/config"
	"github.com/samvad-hq/samvad-httpkit/internal/logger"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// transportOverride replaces the network transport; tests only.
var transportOverride httpclient.Transport

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "httpkit",
	Short: "Send HTTP requests and keep a journal of the exchanges",
	Long: `httpkit dispatches HTTP requests, validates and interprets the
responses, and records every finished exchange.

Get started:
  httpkit send URL          Send a single request
  httpkit run               Run the configured request collection
  httpkit history           List recent exchanges`,
	Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// SetVersion sets the version info
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// withRunner loads configuration, starts logging and hands a runner to fn.
func withRunner(cmd *cobra.Command, fn func(ctx context.Context, r *app.Runner) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if version != "dev" {
		cfg.AppVersion = version
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []app.Option{app.WithZap(log.Sugar().Desugar())}
	if transportOverride != nil {
		opts = append(opts, app.WithTransport(transportOverride))
	}
	runner, err := app.NewRunner(ctx, cfg, log, opts...)
	if err != nil {
		logger.ErrorObj("failed to initialize runner", "error", err.Error())
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := runner.Close(closeCtx); err != nil {
			logger.ErrorObj("runner close failed", "error", err.Error())
		}
	}()

	return fn(ctx, runner)
}
