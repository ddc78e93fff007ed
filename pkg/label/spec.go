package label

import (
	"fmt"

	"github.com/matzehuels/tcglabels/pkg/errors"
	"github.com/matzehuels/tcglabels/pkg/fonts"
)

// Spec describes the canvas every label in a batch is drawn on.
type Spec struct {
	Width  int      `json:"width" toml:"width"`   // pixels, > 0
	Height int      `json:"height" toml:"height"` // pixels, > 0
	Font   fonts.ID `json:"font" toml:"font"`     // empty selects fonts.Default
}

// Validate checks the canvas size. Font availability is checked when the
// font is resolved.
func (s Spec) Validate() error {
	return errors.ValidateDimensions(s.Width, s.Height)
}

// FontID returns the requested font or fonts.Default.
func (s Spec) FontID() fonts.ID {
	if s.Font == "" {
		return fonts.Default
	}
	return s.Font
}

// String returns e.g. "450x150 sans".
func (s Spec) String() string {
	return fmt.Sprintf("%dx%d %s", s.Width, s.Height, s.FontID())
}
