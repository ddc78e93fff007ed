package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/tcglabels/pkg/errors"
	"github.com/matzehuels/tcglabels/pkg/pipeline"
)

// fileConfig mirrors config.toml. Zero values mean "not set".
//
//	size = "2.0x1.0"
//	font = "sans-bold"
//	workers = 4
//	format = "pdf"
type fileConfig struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Size    string `toml:"size"`
	Font    string `toml:"font"`
	Workers int    `toml:"workers"`
	Format  string `toml:"format"`
}

// loadConfig reads the config file at path. When path is empty the default
// location is tried and a missing file is not an error.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeIOFailure, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// apply copies config values into opts for every option whose flag was not
// set on the command line.
func (cfg fileConfig) apply(opts *pipeline.Options, flags *pflag.FlagSet) {
	set := func(name string) bool { return !flags.Changed(name) }

	// An explicit size on the command line replaces configured dimensions.
	sizeFromFlags := flags.Changed("size") || flags.Changed("width") || flags.Changed("height")
	if !sizeFromFlags {
		if cfg.Width != 0 {
			opts.Width = cfg.Width
		}
		if cfg.Height != 0 {
			opts.Height = cfg.Height
		}
		if cfg.Size != "" {
			opts.Size = cfg.Size
		}
	}
	if cfg.Font != "" && set("font") {
		opts.Font = cfg.Font
	}
	if cfg.Workers != 0 && set("workers") {
		opts.Workers = cfg.Workers
	}
	if cfg.Format != "" && set("format") {
		opts.Format = cfg.Format
	}
}
