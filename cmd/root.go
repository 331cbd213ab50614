package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edareport/internal/charts"
	cfgpkg "github.com/KaramelBytes/edareport/internal/config"
	"github.com/KaramelBytes/edareport/internal/logging"
	"github.com/KaramelBytes/edareport/internal/parser"
	"github.com/KaramelBytes/edareport/internal/pipeline"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	sourceFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "edareport --file <path>",
	Short: "Profile a data file into an HTML report with charts",
	Long: `edareport reads one table (CSV, TSV, XLSX or SQLite), classifies its columns,
computes null counts, data types and summary statistics, draws a chart per column
and writes everything as a self-contained HTML report.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		opts, err := pipelineOptions(cfg, sourceFile)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if debug {
			level = "debug"
		}
		logger := logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
		res, err := pipeline.Run(logger.WithContext(cmd.Context()), opts)
		if err != nil {
			return err
		}
		if n := len(res.Failures); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ %d chart(s) could not be generated\n", n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", res.ReportPath)
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edareport/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.Flags().StringVarP(&sourceFile, "file", "f", "", "path to the data file (.csv, .tsv, .xlsx, .db, .sqlite, .sqlite3)")
	_ = rootCmd.MarkFlagRequired("file")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config load it again and report the error
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
}

func pipelineOptions(c *cfgpkg.Global, source string) (pipeline.Options, error) {
	format, err := charts.ParseFormat(c.ImageFormat)
	if err != nil {
		return pipeline.Options{}, err
	}
	delim, err := parser.ParseDelimiter(c.CSVDelimiter)
	if err != nil {
		return pipeline.Options{}, err
	}
	numbers, err := parser.ParseNumberFormat(c.DecimalSeparator, c.ThousandsSeparator)
	if err != nil {
		return pipeline.Options{}, err
	}
	ro := parser.DefaultOptions()
	ro.Delimiter = delim
	ro.Parse = numbers
	ro.SheetName = c.SheetName
	if c.SheetIndex > 0 {
		ro.SheetIndex = c.SheetIndex
	}
	ro.SQLiteTable = c.SQLiteTable
	return pipeline.Options{
		Source:    source,
		OutputDir: c.OutputDir,
		Reader:    ro,
		Format:    format,
		Width:     c.ChartWidth,
		Height:    c.ChartHeight,
		Bins:      c.HistogramBins,
		Workers:   c.RenderWorkers,
	}, nil
}
