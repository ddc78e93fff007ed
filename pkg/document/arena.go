package document

import (
	"image"

	"github.com/matzehuels/tcglabels/pkg/errors"
)

// Arena holds one raster slot per card position.
//
// Workers fill slots in any order with Put; the assembler drains them in
// index order with Take, which releases each raster as soon as it has been
// consumed. An Arena is safe for concurrent Put calls on distinct indices.
type Arena struct {
	slots []image.Image
}

// NewArena creates an arena with n empty slots.
func NewArena(n int) *Arena {
	return &Arena{slots: make([]image.Image, max(0, n))}
}

// Len returns the number of slots.
func (a *Arena) Len() int { return len(a.slots) }

// Put stores img in slot i.
func (a *Arena) Put(i int, img image.Image) error {
	if i < 0 || i >= len(a.slots) {
		return errors.New(errors.ErrCodeInternal, "arena slot %d out of range [0, %d)", i, len(a.slots))
	}
	a.slots[i] = img
	return nil
}

// Take returns the raster in slot i and empties the slot.
// It returns nil for an empty or out-of-range slot.
func (a *Arena) Take(i int) image.Image {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	img := a.slots[i]
	a.slots[i] = nil
	return img
}

// Images returns the slots as a slice. The slice shares storage with the
// arena, so clearing its entries releases the arena's rasters too.
func (a *Arena) Images() []image.Image { return a.slots }

// Release empties every slot.
func (a *Arena) Release() {
	for i := range a.slots {
		a.slots[i] = nil
	}
}
