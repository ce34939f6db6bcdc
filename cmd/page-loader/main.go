package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/page-loader/internal/adapter/httpfetch"
	"github.com/user/page-loader/internal/loader"
	"github.com/user/page-loader/pkg/config"
	"github.com/user/page-loader/pkg/logger"
	"go.uber.org/zap"
)

type options struct {
	configFile  string
	output      string
	concurrency int
	timeout     time.Duration
	logLevel    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "page-loader <url>",
		Short:         "Download a web page with its local resources",
		Version:       "1.0.0",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return runDownload(cmd, cfg, args[0])
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to an env file (default .env)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (default from REQUEST_TIMEOUT)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "max concurrent asset downloads, 0 for unbounded")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output dir (default current working directory)")

	cmd.AddCommand(newServeCmd(&opts))
	return cmd
}

// loadConfig reads the env configuration and applies flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = opts.timeout
	}
	if flags.Changed("concurrency") {
		cfg.MaxConcurrency = opts.concurrency
	}
	if flags.Changed("output") {
		cfg.OutputDir = opts.output
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config, log *zap.Logger) *httpfetch.Fetcher {
	return httpfetch.New(httpfetch.Options{
		Timeout:    cfg.RequestTimeout,
		Proxies:    cfg.Proxies,
		UserAgents: cfg.UserAgents,
	}, log)
}

func runDownload(cmd *cobra.Command, cfg *config.Config, rawURL string) error {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := loader.New(newFetcher(cfg, log), log, loader.WithConcurrency(cfg.MaxConcurrency))
	result, err := l.DownloadPage(ctx, rawURL, cfg.OutputDir)
	if err != nil {
		return err
	}

	for _, failed := range result.Failed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not saved (%s): %v\n", failed.Task.URL, failed.Stage, failed.Err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Page was successfully downloaded into '%s'\n", result.PagePath)
	return nil
}
