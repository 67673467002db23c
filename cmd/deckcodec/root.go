package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/deckcodec"
	"github.com/tsawler/deckcodec/internal/config"
	"github.com/tsawler/deckcodec/internal/logging"
	"github.com/tsawler/deckcodec/internal/metrics"
)

// app carries state shared by every subcommand.
type app struct {
	stdout, stderr io.Writer

	configPath string
	stats      bool
	workers    int
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "deckcodec",
		Short:         "Read and write PPTX presentations",
		Long:          "deckcodec decodes PPTX packages into a typed slide model and writes models back out as PPTX.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.stats {
				return nil
			}
			return a.printStats()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ./deckcodec.yaml or $HOME/deckcodec.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.stats, "stats", false, "Print operation counters to stderr")
	rootCmd.PersistentFlags().IntVarP(&a.workers, "workers", "w", 0, "Concurrent workers (overrides config)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newTextCommand(a))
	rootCmd.AddCommand(newMarkdownCommand(a))
	rootCmd.AddCommand(newRoundtripCommand(a))
	rootCmd.AddCommand(newDetectCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

// init loads configuration and applies flag overrides.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Import.Workers = a.workers
		cfg.Export.Workers = a.workers
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.Logging()
	lc.Output = a.stderr
	a.cfg = cfg
	a.logger = logging.New(lc)
	a.logger.Debug("configuration loaded", "file", cfg.File, "workers", cfg.Import.Workers)
	return nil
}

// open returns a configured codec for filename.
func (a *app) open(filename string) *deckcodec.Codec {
	return deckcodec.Open(filename).
		Workers(a.cfg.Import.Workers).
		Logger(a.logger).
		DefaultAuthor(a.cfg.Export.Author)
}

var warnColor = color.New(color.FgYellow)

// printWarnings writes one yellow line per warning to stderr.
func (a *app) printWarnings(warnings []deckcodec.Warning) {
	for _, w := range warnings {
		warnColor.Fprintln(a.stderr, "warning:", w.String())
	}
}

func (a *app) printStats() error {
	samples, err := metrics.Snapshot()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, s := range samples {
		fmt.Fprintf(a.stderr, "%s%s %g\n", s.Name, formatLabels(s.Labels), s.Value)
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
