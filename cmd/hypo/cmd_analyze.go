package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/denwav/hypo/hydrate"
	"github.com/denwav/hypo/mappings"
	"github.com/denwav/hypo/model"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath  string
		workers     int
		mappingsIn  string
		mappingsOut string
	)

	cmd := &cobra.Command{
		Use:   "analyze [inputs...]",
		Short: "Hydrate a class graph and propagate mappings across it",
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
			if mappingsIn != "" {
				config.Mappings = mappingsIn
			}
			if mappingsOut != "" {
				config.MappingsOut = mappingsOut
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

			if config.Mappings != "" {
				set, err := mappings.LoadFile(config.Mappings)
				if err != nil {
					return err
				}
				if err := mappings.Propagate(ctx, set); err != nil {
					return fmt.Errorf("propagate mappings: %w", err)
				}
				out := config.MappingsOut
				if out == "" {
					out = config.Mappings
				}
				if err := set.SaveFile(out); err != nil {
					return fmt.Errorf("write mappings: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "hydration workers (0 = one per CPU)")
	cmd.Flags().StringVarP(&mappingsIn, "mappings", "m", "", "mapping file to propagate")
	cmd.Flags().StringVarP(&mappingsOut, "mappings-out", "o", "", "output mapping file (default: overwrite input)")

	return cmd
}

func openContext(config *Config) (*model.Context, error) {
	providers, err := openProviders(config.Inputs)
	if err != nil {
		return nil, err
	}
	return model.NewContext(providers...), nil
}

func runAnalysis(ctx *model.Context, config *Config) error {
	log := commonlog.GetLogger("hypo")
	manager := hydrate.NewManager(config.Workers)
	log.Infof("analysis session %s over %d input(s)", manager.Session(), len(config.Inputs))

	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("hydration: %w", err)
	}
	return nil
}
