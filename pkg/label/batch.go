package label

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/document"
	"github.com/matzehuels/tcglabels/pkg/errors"
)

// RasterRenderer renders a single card. *Renderer satisfies it.
type RasterRenderer interface {
	Render(c card.Card, spec Spec) (*image.RGBA, error)
}

// Batch renders many cards with a bounded number of concurrent workers.
type Batch struct {
	renderer RasterRenderer
	workers  int
	logger   *log.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithWorkers sets the worker pool size. Values below one are ignored.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger for per-card debug output.
func WithLogger(l *log.Logger) BatchOption {
	return func(b *Batch) {
		if l != nil {
			b.logger = l
		}
	}
}

// DefaultWorkers returns the pool size used when none is configured:
// GOMAXPROCS, which automaxprocs adjusts to the container CPU quota.
func DefaultWorkers() int {
	return max(1, runtime.GOMAXPROCS(0))
}

// NewBatch creates a batch renderer around r.
func NewBatch(r RasterRenderer, opts ...BatchOption) *Batch {
	b := &Batch{
		renderer: r,
		workers:  DefaultWorkers(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Workers returns the configured pool size.
func (b *Batch) Workers() int { return b.workers }

// RenderAll renders every card and returns the rasters in input order.
// An empty card list yields an empty slice.
func (b *Batch) RenderAll(ctx context.Context, cards []card.Card, spec Spec) ([]image.Image, error) {
	arena, err := b.RenderArena(ctx, cards, spec)
	if err != nil {
		return nil, err
	}
	return arena.Images(), nil
}

// RenderArena renders every card into an arena slot indexed by card position.
//
// Rendering runs on up to Workers goroutines. Each result lands in the slot
// of its card index, so the output order never depends on completion order.
// The first failure cancels outstanding work and no arena is returned.
func (b *Batch) RenderArena(ctx context.Context, cards []card.Card, spec Spec) (*document.Arena, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	arena := document.NewArena(len(cards))
	err := b.each(ctx, len(cards), func(i int) error {
		img, err := b.renderer.Render(cards[i], spec)
		if err != nil {
			return cardError(i, cards[i], err)
		}
		b.logger.Debug("rendered label", "index", i, "card", cards[i].Key(i))
		return arena.Put(i, img)
	})
	if err != nil {
		arena.Release()
		return nil, err
	}
	return arena, nil
}

// WriteDir renders every card to dir/label_<key>.png, creating dir if needed,
// and returns the written paths in input order.
//
// The first render or write failure aborts the remaining cards. Files that
// were already written are left in place.
func (b *Batch) WriteDir(ctx context.Context, cards []card.Card, spec Spec, dir string) ([]string, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	names, err := FileNames(cards)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailure, err, "create output directory %s", dir)
	}

	paths := make([]string, len(cards))
	err = b.each(ctx, len(cards), func(i int) error {
		img, err := b.renderer.Render(cards[i], spec)
		if err != nil {
			return cardError(i, cards[i], err)
		}
		path := filepath.Join(dir, names[i])
		if err := imaging.Save(img, path); err != nil {
			return errors.Wrap(errors.ErrCodeIOFailure, err, "card %d: write %s", i, path)
		}
		paths[i] = path
		b.logger.Debug("wrote label", "index", i, "path", path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// FileNames returns the per-card PNG file names used by WriteDir.
// Cards sharing a key get a numeric suffix in input order:
// label_4.png, label_4_2.png, label_4_3.png.
func FileNames(cards []card.Card) ([]string, error) {
	names := make([]string, len(cards))
	seen := make(map[string]int, len(cards))
	for i, c := range cards {
		key := c.Key(i)
		seen[key]++
		name := "label_" + key + ".png"
		if n := seen[key]; n > 1 {
			name = fmt.Sprintf("label_%s_%d.png", key, n)
		}
		if err := errors.ValidateFilename(name); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "card %d", i)
		}
		names[i] = name
	}
	return names, nil
}

// each runs fn for 0..n-1 on the worker pool and waits for completion.
func (b *Batch) each(ctx context.Context, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	stopped := false
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			stopped = true
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if stopped {
		return ctx.Err()
	}
	return nil
}

// cardError attaches the card position to err, keeping its code.
func cardError(i int, c card.Card, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "card %d (%s)", i, c.Key(i))
}
