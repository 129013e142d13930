package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gavinmcnair/datesort/pkg/config"
	"github.com/gavinmcnair/datesort/pkg/logging"
	"github.com/gavinmcnair/datesort/pkg/organizer"
)

type rootOptions struct {
	configPath    string
	root          string
	dryRun        bool
	dedupe        bool
	filenameDates bool
	logLevel      string
	logFormat     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "datesort",
		Short:         "Move photos and videos into date directories",
		Long:          "datesort moves the images and videos in a directory into YYYY-MM-DD subdirectories named after the date each was taken.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runOrganize(cmd, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVar(&opts.root, "root", "", "Directory to organise (defaults to the working directory)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Log planned moves without touching the filesystem")
	flags.BoolVar(&opts.dedupe, "dedupe", false, "Leave files in place when the date directory already holds a copy")
	flags.BoolVar(&opts.filenameDates, "filename-dates", false, "Try a date in the file name before the modification time")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// loadConfig reads the configuration file and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Organize.Root = opts.root
	}
	if flags.Changed("dry-run") {
		cfg.Organize.DryRun = opts.dryRun
	}
	if flags.Changed("dedupe") {
		cfg.Dedupe.Enabled = opts.dedupe
	}
	if flags.Changed("filename-dates") {
		cfg.Organize.FilenameDates = opts.filenameDates
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runOrganize(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	root, err := cfg.ResolveRoot()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
	defer stop()

	logger.Info().Str("root", root).Bool("dry_run", cfg.Organize.DryRun).Msg("organising")
	summary, err := organizer.NewFromConfig(cfg, logger).Run(ctx, root)
	if summary != nil {
		summary.Render(cmd.OutOrStdout())
	}
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("interrupted")
		}
		return err
	}
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
