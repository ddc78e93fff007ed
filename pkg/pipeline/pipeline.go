// Package pipeline provides the label rendering pipeline for tcglabels.
//
// This package implements the complete layout → render → assemble pipeline
// used by the CLI. By centralizing this logic, defaults and caching behave the
// same no matter which entry point drives a run.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Render: Lay out and rasterize one label per card on a bounded worker pool
//  2. Assemble: Encode the rasters into a multi-page PDF, or write PNG files
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	opts := pipeline.Options{
//	    Size:   "1.5x0.5",
//	    Font:   "sans",
//	    Format: pipeline.FormatPDF,
//	}
//	result, err := runner.Execute(ctx, cards, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Document
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tcglabels/pkg/cache"
	"github.com/matzehuels/tcglabels/pkg/errors"
	"github.com/matzehuels/tcglabels/pkg/fonts"
	"github.com/matzehuels/tcglabels/pkg/label"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and library callers
// =============================================================================

const (
	// DefaultWidth is the default label width in pixels (1.5 inch at 300 px/in).
	DefaultWidth = 450

	// DefaultHeight is the default label height in pixels (0.5 inch).
	DefaultHeight = 150

	// DefaultSize is the preset matching DefaultWidth x DefaultHeight.
	DefaultSize = "1.5x0.5"

	// DefaultFont is the default font identifier.
	DefaultFont = string(fonts.Default)
)

// Format constants for output formats.
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF: true,
	FormatPNG: true,
}

// Preset is a named label size in inches with its pixel dimensions.
type Preset struct {
	Name   string
	Width  int
	Height int
}

// Presets lists the label sizes offered by name, keyed by "<w>x<h>" inches.
var Presets = map[string]Preset{
	"1.2x0.8":  {Name: "1.2x0.8", Width: 360, Height: 240},
	"1.5x0.5":  {Name: "1.5x0.5", Width: 450, Height: 150},
	"2.0x1.0":  {Name: "2.0x1.0", Width: 600, Height: 300},
	"2.25x1.5": {Name: "2.25x1.5", Width: 675, Height: 450},
}

// PresetNames returns the preset names ordered by label area.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := Presets[names[i]], Presets[names[j]]
		if a.Width*a.Height != b.Width*b.Height {
			return a.Width*a.Height < b.Width*b.Height
		}
		return names[i] < names[j]
	})
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Canvas options. Width and Height take precedence over Size.
	Width  int    `json:"width,omitempty" toml:"width"`
	Height int    `json:"height,omitempty" toml:"height"`
	Size   string `json:"size,omitempty" toml:"size"`
	Font   string `json:"font,omitempty" toml:"font"`

	// Output options
	Format  string `json:"format,omitempty" toml:"format"`
	Output  string `json:"output,omitempty" toml:"-"` // PNG output directory
	NoCache bool   `json:"no_cache,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Workers int         `json:"-" toml:"workers"`
	Logger  *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the resolved label spec the run used.
	Spec label.Spec

	// Document is the assembled PDF. Empty for PNG runs and for zero cards.
	Document []byte

	// Pages is the number of pages in Document.
	Pages int

	// Files lists the written PNG paths in card order (PNG runs only).
	Files []string

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether Document came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cards        int
	RenderTime   time.Duration
	AssembleTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, png)", format)
	}
	return nil
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, error) {
	p, ok := Presets[strings.TrimSpace(name)]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodeInvalidSpec,
			"unknown size %q (must be one of: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Width == 0 && o.Height == 0 {
		size := o.Size
		if size == "" {
			size = DefaultSize
		}
		p, err := LookupPreset(size)
		if err != nil {
			return err
		}
		o.Width, o.Height = p.Width, p.Height
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}

	if o.Font == "" {
		o.Font = DefaultFont
	}
	o.Font = string(fonts.ParseID(o.Font))
	if o.Font == "" {
		return errors.New(errors.ErrCodeInvalidFont, "font name is blank")
	}

	if o.Format == "" {
		o.Format = FormatPDF
	}
	o.Format = strings.ToLower(o.Format)
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Format == FormatPNG && o.Output == "" {
		return errors.New(errors.ErrCodeInvalidPath, "png output needs a directory")
	}

	if o.Workers <= 0 {
		o.Workers = label.DefaultWorkers()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Spec returns the label spec described by the options.
func (o *Options) Spec() label.Spec {
	return label.Spec{Width: o.Width, Height: o.Height, Font: fonts.ID(o.Font)}
}

// ArtifactKeyOpts returns cache key options for the assembled artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: o.Format,
		Width:  o.Width,
		Height: o.Height,
		Font:   o.Font,
	}
}
