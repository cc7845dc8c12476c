package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tmdbreport/internal/app"
	"tmdbreport/internal/config"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
	"tmdbreport/pkg/contracts"
)

// cli holds flag values and the pipeline built for the running command.
type cli struct {
	out io.Writer

	configFile string
	logLevel   string
	baseDir    string

	output  string
	title   string
	topN    int
	host    string
	port    int
	dir     string
	formats []string
	bom     bool
	rows    int
	full    bool

	pipeline *app.Pipeline
}

func newCLI(out io.Writer) *cli {
	return &cli{out: out}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Clean a TMDb movie export and chart it",
		Long: `tmdbreport loads a TMDb movie export (CSV or XLSX), drops rows without a
title, rating or release date, and produces rankings, per-year counts and
charts from what remains.

The input file is the first argument, or TMDB_INPUT_PATH when omitted.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: config.yaml or configs/config.yaml)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&c.baseDir, "base-dir", "", "directory relative paths are resolved against (default: working directory)")

	root.AddCommand(c.reportCmd(), c.serveCmd(), c.exportCmd(), c.inspectCmd(), c.versionCmd())
	return root
}

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [input]",
		Short: "Write a self-contained HTML report with every chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.pipeline.Context(cmd.Context())
			ds, err := c.pipeline.Prepare(ctx)
			if err != nil {
				return err
			}
			path, err := c.pipeline.Report(ctx, ds)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Report written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "report file path")
	cmd.Flags().StringVar(&c.title, "title", "", "report title")
	cmd.Flags().IntVarP(&c.topN, "top", "n", 0, "number of movies in the top lists")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [input]",
		Short: "Serve the charts and JSON views over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.pipeline.Context(cmd.Context())
			ds, err := c.pipeline.Prepare(ctx)
			if err != nil {
				return err
			}
			application, err := app.NewApplication(c.pipeline, ds)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&c.host, "host", "", "listen host")
	cmd.Flags().IntVarP(&c.port, "port", "p", 0, "listen port")
	cmd.Flags().IntVarP(&c.topN, "top", "n", 0, "number of movies in the top lists")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [input]",
		Short: "Export the cleaned data and views as CSV and XLSX",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.pipeline.Context(cmd.Context())
			ds, err := c.pipeline.Prepare(ctx)
			if err != nil {
				return err
			}
			written, err := c.pipeline.Export(ctx, ds)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(c.out, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.dir, "dir", "d", "", "export directory")
	cmd.Flags().StringSliceVarP(&c.formats, "format", "f", nil, "export formats (csv, xlsx)")
	cmd.Flags().BoolVar(&c.bom, "bom", false, "prefix CSV files with a UTF-8 byte order mark")
	cmd.Flags().IntVarP(&c.topN, "top", "n", 0, "number of movies in the top lists")
	return cmd
}

func (c *cli) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [input]",
		Short: "Print the first rows, the columns and the conclusions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.rows < 1 || c.rows > config.MaxPreviewRows {
				return apperrors.NewAppValidationError(
					fmt.Sprintf("rows must be between 1 and %d", config.MaxPreviewRows), nil)
			}
			ctx := c.pipeline.Context(cmd.Context())
			ds, err := c.pipeline.Prepare(ctx)
			if err != nil {
				return err
			}
			return writeInspection(c.out, ds, c.rows, c.pipeline.Config.Report.TopN)
		},
	}
	cmd.Flags().IntVarP(&c.rows, "rows", "r", config.DefaultHeadRows, "number of rows to preview")
	cmd.Flags().IntVarP(&c.topN, "top", "n", 0, "number of movies compared in the conclusions")
	return cmd
}

func (c *cli) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			if c.full {
				fmt.Fprintln(c.out, contracts.GetFullVersionString())
				return
			}
			fmt.Fprintln(c.out, contracts.GetVersionString())
		},
	}
	cmd.Flags().BoolVar(&c.full, "full", false, "include build details")
	return cmd
}

// setup loads configuration, applies flag overrides and the positional
// input, then builds the logger, telemetry and pipeline.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configFile != "" {
		cfg, err = config.LoadFrom(c.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if len(args) == 1 {
		cfg.Input.Path = strings.TrimSpace(args[0])
	}
	c.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths, err := cfg.ResolvePaths(c.baseDir)
	if err != nil {
		return apperrors.NewConfigError("failed to resolve paths", err)
	}

	logging := cfg.Logging
	if paths.LogFile != "" {
		logging.FilePath = paths.LogFile
	}
	logger, err := infrastructure.InitializeLogger(logging)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize telemetry", err)
	}

	c.pipeline, err = app.NewPipeline(cfg, paths, logger, providers)
	if err != nil {
		return err
	}

	c.pipeline.Logger.DebugContext(c.pipeline.Context(cmd.Context()), "command starting",
		slog.String("command", cmd.Name()),
		slog.Any("paths", paths))
	return nil
}

func (c *cli) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(c.logLevel)
	}
	if flags.Changed("output") {
		cfg.Report.OutputPath = c.output
	}
	if flags.Changed("title") {
		cfg.Report.Title = c.title
	}
	if flags.Changed("top") {
		cfg.Report.TopN = c.topN
	}
	if flags.Changed("host") {
		cfg.Server.Host = c.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = c.port
	}
	if flags.Changed("dir") {
		cfg.Export.Dir = c.dir
	}
	if flags.Changed("format") {
		cfg.Export.Formats = make([]string, len(c.formats))
		for i, f := range c.formats {
			cfg.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
		}
	}
	if flags.Changed("bom") {
		cfg.Export.WithBOM = c.bom
	}
}

func (c *cli) teardown(ctx context.Context) error {
	if c.pipeline == nil {
		return nil
	}
	if err := c.pipeline.Shutdown(ctx); err != nil {
		c.pipeline.Logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
	}
	return nil
}
