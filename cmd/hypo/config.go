package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/denwav/hypo/model"
)

// Config is the analysis configuration read from a TOML file. Flags
// override whatever the file sets.
type Config struct {
	// Inputs are class sources: directories of .class files or
	// .jar/.zip archives.
	Inputs []string `toml:"inputs"`

	// Workers is the hydration worker count; zero means one per CPU.
	Workers int `toml:"workers"`

	// Mappings is an optional mapping file read before propagation.
	Mappings string `toml:"mappings"`

	// MappingsOut is where the propagated mappings are written;
	// defaults to Mappings.
	MappingsOut string `toml:"mappings_out"`
}

func loadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &config, nil
}

// openProviders opens one class provider per input path.
func openProviders(inputs []string) ([]model.ClassProvider, error) {
	var providers []model.ClassProvider
	for _, input := range inputs {
		switch filepath.Ext(input) {
		case ".jar", ".zip":
			p, err := model.NewJarProvider(input)
			if err != nil {
				closeProviders(providers)
				return nil, fmt.Errorf("open %s: %w", input, err)
			}
			providers = append(providers, p)
		default:
			providers = append(providers, model.NewDirProvider(input))
		}
	}
	return providers, nil
}

func closeProviders(providers []model.ClassProvider) {
	for _, p := range providers {
		p.Close()
	}
}
