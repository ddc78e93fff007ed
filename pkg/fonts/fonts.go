// Package fonts resolves font identifiers to renderable font faces.
//
// The built-in set is closed and small:
//
//   - [Sans]: Go Regular, bundled in the binary (default)
//   - [SansBold]: Go Bold, bundled
//   - [Mono]: Go Mono, bundled
//   - [Unicode]: a broad-coverage Unicode font found on the host
//
// Additional fonts are added with [Registry.Register]; the renderer only ever
// calls [Registry.Resolve], so new fonts never require renderer changes.
//
// Parsed fonts are cached and shared read-only between goroutines. Faces are
// not: every Resolve call returns a fresh [font.Face] because faces keep a
// mutable glyph cache.
package fonts

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/tcglabels/pkg/errors"
)

// ID identifies a font in a [Registry].
type ID string

// Built-in font identifiers.
const (
	Sans     ID = "sans"
	SansBold ID = "sans-bold"
	Mono     ID = "mono"
	Unicode  ID = "unicode"
)

// Default is the font used when none is requested.
const Default = Sans

// SizeRatio is the font size as a fraction of the canvas height.
const SizeRatio = 0.25

// unicodeCandidates are searched in order on the host for the [Unicode] font.
var unicodeCandidates = []string{
	"Arial Unicode.ttf",
	"Arial Unicode MS.ttf",
	"DejaVuSans.ttf",
	"NotoSans-Regular.ttf",
}

// PointSize returns the face size for a canvas of the given height:
// round(height * SizeRatio), never smaller than one pixel.
func PointSize(canvasHeight int) float64 {
	return math.Max(1, math.Round(float64(canvasHeight)*SizeRatio))
}

// ParseID normalizes user input ("OpenSans Bold", " SANS ") into an ID.
func ParseID(s string) ID {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return ID(strings.ReplaceAll(s, "_", "-"))
}

// Registry maps font identifiers to sources and caches parsed fonts.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources map[ID]Source
	aliases map[ID]ID
	parsed  map[ID]*truetype.Font
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[ID]Source),
		aliases: make(map[ID]ID),
		parsed:  make(map[ID]*truetype.Font),
	}
}

// NewBuiltinRegistry creates a registry holding the built-in font set and
// the aliases used by the original web form ("Arial", "Opensans", "Opensans Bold").
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(Sans, Embedded("Go Regular", goregular.TTF))
	r.Register(SansBold, Embedded("Go Bold", gobold.TTF))
	r.Register(Mono, Embedded("Go Mono", gomono.TTF))
	r.Register(Unicode, System(unicodeCandidates...))

	r.Alias("arial", Unicode)
	r.Alias("opensans", Sans)
	r.Alias("opensans-bold", SansBold)
	return r
}

var (
	builtin     *Registry
	builtinOnce sync.Once
)

// Builtin returns the process-wide built-in registry.
// The result is created once and shared.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtin = NewBuiltinRegistry()
	})
	return builtin
}

// Register adds or replaces the source for id and drops any cached parse.
func (r *Registry) Register(id ID, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[id] = src
	delete(r.parsed, id)
}

// Alias makes alias resolve to target.
func (r *Registry) Alias(alias, target ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = target
}

// IDs returns the registered (non-alias) identifiers in sorted order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]ID, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[ID]ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[ID]ID, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Lookup returns the canonical identifier and source for id.
func (r *Registry) Lookup(id ID) (ID, Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(id)
}

func (r *Registry) lookupLocked(id ID) (ID, Source, bool) {
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	src, ok := r.sources[id]
	return id, src, ok
}

// Font returns the parsed font for id, loading and caching it on first use.
// Failed loads are not cached so a font installed later can still resolve.
func (r *Registry) Font(id ID) (*truetype.Font, error) {
	if id == "" {
		id = Default
	}

	r.mu.RLock()
	canonical, src, ok := r.lookupLocked(id)
	f := r.parsed[canonical]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrCodeFontNotFound, "unknown font %q", id)
	}
	if f != nil {
		return f, nil
	}

	data, err := src.Load()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "load font %q (%s)", canonical, src.Describe())
	}
	f, err = truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "parse font %q (%s)", canonical, src.Describe())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached := r.parsed[canonical]; cached != nil {
		return cached, nil
	}
	r.parsed[canonical] = f
	return f, nil
}

// Resolve returns a face for id sized for a canvas of canvasHeight pixels.
// Sizes are in pixels (72 DPI, so one point is one pixel).
// The caller owns the face and should Close it when done.
func (r *Registry) Resolve(id ID, canvasHeight int) (font.Face, error) {
	f, err := r.Font(id)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    PointSize(canvasHeight),
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Available reports whether id resolves to a loadable font.
func (r *Registry) Available(id ID) bool {
	_, err := r.Font(id)
	return err == nil
}
