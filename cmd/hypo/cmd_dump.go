package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/denwav/hypo/format"
)

func newDumpCmd() *cobra.Command {
	var (
		configPath string
		workers    int
		dumpFormat string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "dump [inputs...]",
		Short: "Run the analysis and write the hydration report",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &Config{}
			if configPath != "" {
				loaded, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				config = loaded
			}
			if len(args) > 0 {
				config.Inputs = args
			}
			if workers > 0 {
				config.Workers = workers
			}
			if len(config.Inputs) == 0 {
				return fmt.Errorf("no inputs: pass paths or set inputs in the config file")
			}

			ctx, err := openContext(config)
			if err != nil {
				return err
			}
			defer ctx.Close()

			if err := runAnalysis(ctx, config); err != nil {
				return err
			}

			report, err := format.BuildReport(ctx)
			if err != nil {
				return fmt.Errorf("build report: %w", err)
			}
			return writeReport(report, dumpFormat, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "hydration workers (0 = one per CPU)")
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "output format (json, yaml, cbor)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout; .zst compresses)")

	return cmd
}

func writeReport(report *format.Report, name, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f

		if strings.HasSuffix(output, ".zst") {
			zw, err := zstd.NewWriter(f)
			if err != nil {
				return err
			}
			defer zw.Close()
			w = zw
		}
	}

	enc, err := format.NewEncoder(name, w)
	if err != nil {
		return err
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
