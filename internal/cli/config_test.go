package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/tcglabels/pkg/errors"
	"github.com/matzehuels/tcglabels/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
size = "2.0x1.0"
font = "mono"
workers = 3
format = "png"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	want := fileConfig{Size: "2.0x1.0", Font: "mono", Workers: 3, Format: "png"}
	if cfg != want {
		t.Errorf("loadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigMissingDefaultIsIgnored(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}
	if cfg != (fileConfig{}) {
		t.Errorf("loadConfig(\"\") = %+v, want zero config", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want errors.Code
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "nope.toml"), errors.ErrCodeFileNotFound},
		{"malformed", writeConfig(t, "size = "), errors.ErrCodeInvalidInput},
		{"unknown key", writeConfig(t, `colour = "red"`), errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("loadConfig() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestConfigApplyFlagsWin(t *testing.T) {
	cfg := fileConfig{Size: "2.0x1.0", Font: "mono", Workers: 3, Format: "png"}

	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	var opts pipeline.Options
	flags.StringVar(&opts.Font, "font", "", "")
	flags.StringVar(&opts.Size, "size", "", "")
	flags.IntVar(&opts.Width, "width", 0, "")
	flags.IntVar(&opts.Height, "height", 0, "")
	flags.IntVar(&opts.Workers, "workers", 0, "")
	flags.StringVar(&opts.Format, "format", "", "")
	if err := flags.Parse([]string{"--font", "sans-bold", "--width", "100", "--height", "50"}); err != nil {
		t.Fatal(err)
	}

	cfg.apply(&opts, flags)

	if opts.Font != "sans-bold" {
		t.Errorf("Font = %q, want flag value sans-bold", opts.Font)
	}
	if opts.Size != "" || opts.Width != 100 || opts.Height != 50 {
		t.Errorf("size = %q %dx%d, want flag dimensions 100x50", opts.Size, opts.Width, opts.Height)
	}
	if opts.Workers != 3 {
		t.Errorf("Workers = %d, want config value 3", opts.Workers)
	}
	if opts.Format != "png" {
		t.Errorf("Format = %q, want config value png", opts.Format)
	}
}
