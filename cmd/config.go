package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edareport/internal/charts"
	cfgpkg "github.com/KaramelBytes/edareport/internal/config"
	"github.com/KaramelBytes/edareport/internal/parser"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edareport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "image_format: %s\n", cfg.ImageFormat)
		fmt.Fprintf(w, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(w, "chart_height: %d\n", cfg.ChartHeight)
		if cfg.HistogramBins > 0 {
			fmt.Fprintf(w, "histogram_bins: %d\n", cfg.HistogramBins)
		} else {
			fmt.Fprintln(w, "histogram_bins: auto")
		}
		fmt.Fprintf(w, "render_workers: %d\n", cfg.RenderWorkers)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		if cfg.CSVDelimiter != "" {
			fmt.Fprintf(w, "csv_delimiter: %q\n", cfg.CSVDelimiter)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(w, "sheet_index: %d\n", cfg.SheetIndex)
		if cfg.SQLiteTable != "" {
			fmt.Fprintf(w, "sqlite_table: %s\n", cfg.SQLiteTable)
		}
		if cfg.DecimalSeparator != "" {
			fmt.Fprintf(w, "decimal_separator: %q\n", cfg.DecimalSeparator)
		}
		if cfg.ThousandsSeparator != "" {
			fmt.Fprintf(w, "thousands_separator: %q\n", cfg.ThousandsSeparator)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "output_dir":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("output_dir must not be empty")
			}
			cfg.OutputDir = val
		case "image_format":
			f, err := charts.ParseFormat(val)
			if err != nil {
				return err
			}
			cfg.ImageFormat = string(f)
		case "chart_width", "chart_height", "histogram_bins", "render_workers", "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "chart_width":
				cfg.ChartWidth = i
			case "chart_height":
				cfg.ChartHeight = i
			case "histogram_bins":
				cfg.HistogramBins = i
			case "render_workers":
				cfg.RenderWorkers = i
			case "sheet_index":
				cfg.SheetIndex = i
			}
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "console", "json":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		case "csv_delimiter":
			if _, err := parser.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.CSVDelimiter = val
		case "decimal_separator", "thousands_separator":
			dec, thou := cfg.DecimalSeparator, cfg.ThousandsSeparator
			if key == "decimal_separator" {
				dec = val
			} else {
				thou = val
			}
			if _, err := parser.ParseNumberFormat(dec, thou); err != nil {
				return err
			}
			cfg.DecimalSeparator, cfg.ThousandsSeparator = dec, thou
		case "sheet_name":
			cfg.SheetName = val
		case "sqlite_table":
			cfg.SQLiteTable = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
