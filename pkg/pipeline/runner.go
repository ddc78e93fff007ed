package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tcglabels/pkg/cache"
	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/document"
	"github.com/matzehuels/tcglabels/pkg/errors"
	"github.com/matzehuels/tcglabels/pkg/fonts"
	"github.com/matzehuels/tcglabels/pkg/label"
	"github.com/matzehuels/tcglabels/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, font registry and logger -
// it doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Fonts  *fonts.Registry
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil logger discards output.
// Fonts default to the built-in registry.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Fonts:  fonts.Builtin(),
		Logger: logger,
	}
}

// Execute renders cards into the format requested by opts.
//
// For PDF the assembled document is returned in Result.Document and is
// cached by content; an identical request is served from the cache. For
// PNG every label is written to opts.Output and the paths are returned in
// Result.Files.
func (r *Runner) Execute(ctx context.Context, cards []card.Card, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	spec := opts.Spec()
	if _, err := r.Fonts.Font(spec.FontID()); err != nil {
		return nil, err
	}

	result := &Result{Spec: spec, Stats: Stats{Cards: len(cards)}}
	if opts.Format == FormatPNG {
		if err := r.writePNG(ctx, cards, spec, opts, result); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := r.buildPDF(ctx, cards, spec, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// buildPDF renders and assembles the document, consulting the cache first.
func (r *Runner) buildPDF(ctx context.Context, cards []card.Card, spec label.Spec, opts Options, result *Result) error {
	useCache := !opts.NoCache && len(cards) > 0
	var cacheKey string
	if useCache {
		cardsHash, err := hashLayouts(cards)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "hash cards")
		}
		cacheKey = r.fontKeyer(spec.FontID()).ArtifactKey(cardsHash, opts.ArtifactKeyOpts())

		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.Document = data
			result.Pages = len(cards)
			result.CacheHit = true
			opts.Logger.Info("served labels from cache", "cards", len(cards), "bytes", len(data))
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	arena, err := r.render(ctx, cards, spec, opts, result)
	if err != nil {
		return err
	}

	hooks := observability.Pipeline()
	hooks.OnAssembleStart(ctx, arena.Len())
	start := time.Now()
	doc, err := document.AssembleArena(ctx, arena)
	var data []byte
	if err == nil {
		data, err = doc.Bytes()
	}
	result.Stats.AssembleTime = time.Since(start)
	hooks.OnAssembleComplete(ctx, arena.Len(), len(data), result.Stats.AssembleTime, err)
	if err != nil {
		return err
	}

	result.Document = data
	result.Pages = doc.PageCount()
	opts.Logger.Info("assembled document",
		"pages", result.Pages,
		"bytes", len(data),
		"duration", result.Stats.AssembleTime)

	if useCache {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return nil
}

// hashLayouts hashes the text each card puts on its label. Fields that never
// reach the raster, such as the generated UniqueID, stay out of the key.
func hashLayouts(cards []card.Card) (string, error) {
	lines := make([]label.Lines, len(cards))
	for i, c := range cards {
		lines[i] = label.Layout(c)
	}
	return cache.HashJSON(lines)
}

// fontKeyer scopes keys by the source behind a font id, so re-registering
// an id with different font data never serves a document drawn with the old
// one.
func (r *Runner) fontKeyer(id fonts.ID) cache.Keyer {
	canonical, src, ok := r.Fonts.Lookup(id)
	if !ok {
		return r.Keyer
	}
	return cache.NewScopedKeyer(r.Keyer, string(canonical)+"@"+src.Describe()+":")
}

// render runs the batch renderer into an arena.
func (r *Runner) render(ctx context.Context, cards []card.Card, spec label.Spec, opts Options, result *Result) (*document.Arena, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, len(cards), spec.String())
	start := time.Now()
	arena, err := r.batch(opts).RenderArena(ctx, cards, spec)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, len(cards), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("rendered labels",
		"cards", len(cards),
		"spec", spec.String(),
		"workers", opts.Workers,
		"duration", result.Stats.RenderTime)
	return arena, nil
}

// writePNG renders every card straight to opts.Output.
func (r *Runner) writePNG(ctx context.Context, cards []card.Card, spec label.Spec, opts Options, result *Result) error {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, len(cards), spec.String())
	start := time.Now()
	files, err := r.batch(opts).WriteDir(ctx, cards, spec, opts.Output)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, len(cards), result.Stats.RenderTime, err)
	if err != nil {
		return err
	}

	result.Files = files
	opts.Logger.Info("wrote label images",
		"files", len(files),
		"dir", opts.Output,
		"duration", result.Stats.RenderTime)
	return nil
}

func (r *Runner) batch(opts Options) *label.Batch {
	return label.NewBatch(label.NewRenderer(r.Fonts),
		label.WithWorkers(opts.Workers),
		label.WithLogger(opts.Logger))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
