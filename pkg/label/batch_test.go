package label

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/document"
	"github.com/matzehuels/tcglabels/pkg/errors"
)

// gatedRenderer finishes cards in reverse input order: card i may only
// complete after card i+1 has completed.
type gatedRenderer struct {
	gates []chan struct{}

	mu    sync.Mutex
	order []int
}

func newGatedRenderer(n int) *gatedRenderer {
	g := &gatedRenderer{gates: make([]chan struct{}, n)}
	for i := range g.gates {
		g.gates[i] = make(chan struct{})
	}
	return g
}

func (g *gatedRenderer) Render(c card.Card, spec Spec) (*image.RGBA, error) {
	var i int
	if _, err := fmt.Sscanf(c.UniqueID, "card-%d", &i); err != nil {
		return nil, err
	}
	if i+1 < len(g.gates) {
		<-g.gates[i+1]
	}
	img := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	img.Pix[0] = byte(i) // tag the raster with its card index

	g.mu.Lock()
	g.order = append(g.order, i)
	g.mu.Unlock()
	close(g.gates[i])
	return img, nil
}

// failingRenderer fails on one card index.
type failingRenderer struct {
	failAt int
	inner  RasterRenderer
}

func (f failingRenderer) Render(c card.Card, spec Spec) (*image.RGBA, error) {
	if c.UniqueID == fmt.Sprintf("card-%d", f.failAt) {
		return nil, errors.New(errors.ErrCodeFontNotFound, "font %q not found", "unicode")
	}
	return f.inner.Render(c, spec)
}

func numberedCards(n int) []card.Card {
	cards := make([]card.Card, n)
	for i := range cards {
		cards[i] = card.Card{
			Number:   fmt.Sprint(i + 1),
			Name:     fmt.Sprintf("Card %d", i+1),
			Rarity:   "Common",
			SetName:  "Test Set",
			UniqueID: fmt.Sprintf("card-%d", i),
		}
	}
	return cards
}

func TestRenderAllPreservesOrderUnderOutOfOrderCompletion(t *testing.T) {
	const n = 6
	cards := numberedCards(n)
	r := newGatedRenderer(n)

	rasters, err := NewBatch(r, WithWorkers(n)).RenderAll(context.Background(), cards, Spec{Width: 8, Height: 4})
	if err != nil {
		t.Fatalf("RenderAll error: %v", err)
	}

	wantOrder := []int{5, 4, 3, 2, 1, 0}
	if !reflect.DeepEqual(r.order, wantOrder) {
		t.Fatalf("completion order = %v, want %v", r.order, wantOrder)
	}
	if len(rasters) != n {
		t.Fatalf("got %d rasters, want %d", len(rasters), n)
	}
	for i, img := range rasters {
		if got := img.(*image.RGBA).Pix[0]; int(got) != i {
			t.Errorf("raster %d came from card %d", i, got)
		}
	}
}

func TestRenderAllMatchesSingleRenders(t *testing.T) {
	cards := []card.Card{pikachu, charizard, blastoise}
	spec := Spec{Width: 450, Height: 150}
	r := NewRenderer(nil)

	rasters, err := NewBatch(r, WithWorkers(3)).RenderAll(context.Background(), cards, spec)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cards {
		want, err := r.Render(c, spec)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(rasters[i].(*image.RGBA).Pix, want.Pix) {
			t.Errorf("raster %d does not match a direct render of %s", i, c.Name)
		}
	}
}

func TestRenderArenaFeedsAssembler(t *testing.T) {
	cards := numberedCards(4)
	arena, err := NewBatch(NewRenderer(nil), WithWorkers(2)).RenderArena(context.Background(), cards, Spec{Width: 120, Height: 40})
	if err != nil {
		t.Fatalf("RenderArena error: %v", err)
	}
	if arena.Len() != len(cards) {
		t.Fatalf("arena.Len() = %d, want %d", arena.Len(), len(cards))
	}

	doc, err := document.AssembleArena(context.Background(), arena)
	if err != nil {
		t.Fatalf("AssembleArena error: %v", err)
	}
	if doc.PageCount() != len(cards) {
		t.Errorf("PageCount() = %d, want %d", doc.PageCount(), len(cards))
	}
	if arena.Take(0) != nil {
		t.Error("arena slots should be released after assembly")
	}
}

// meanDiff is the mean absolute per-channel difference between a and b.
func meanDiff(t *testing.T, a, b image.Image) float64 {
	t.Helper()
	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds %v and %v differ", a.Bounds(), b.Bounds())
	}
	var sum, n float64
	r := a.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ar, ag, ab, _ := a.At(x, y).RGBA()
			br, bg, bb, _ := b.At(x, y).RGBA()
			for _, d := range [][2]uint32{{ar, br}, {ag, bg}, {ab, bb}} {
				sum += math.Abs(float64(d[0]>>8) - float64(d[1]>>8))
				n++
			}
		}
	}
	return sum / n
}

func TestAssembledPagesMatchCardsInOrder(t *testing.T) {
	cards := []card.Card{
		{Number: "58/102", Name: "Pikachu", SetName: "Base Set", Rarity: "Common"},
		{Number: "4/102", Name: "Charizard", SetName: "Base Set", Rarity: "Rare Holo"},
	}
	spec := Spec{Width: 450, Height: 150}
	r := NewRenderer(nil)

	rasters, err := NewBatch(r, WithWorkers(2)).RenderAll(context.Background(), cards, spec)
	if err != nil {
		t.Fatal(err)
	}
	direct := make([]image.Image, len(cards))
	for i, c := range cards {
		if direct[i], err = r.Render(c, spec); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := document.Assemble(context.Background(), rasters)
	if err != nil {
		t.Fatal(err)
	}
	pages := doc.Pages()
	if len(pages) != len(cards) {
		t.Fatalf("page count = %d, want %d", len(pages), len(cards))
	}

	for i, page := range pages {
		img, err := imaging.Decode(bytes.NewReader(page.JPEG()))
		if err != nil {
			t.Fatalf("page %d: decode: %v", i, err)
		}
		if got := img.Bounds().Size(); got != (image.Point{X: 450, Y: 150}) {
			t.Errorf("page %d: size = %v, want 450x150", i, got)
		}
		own := meanDiff(t, img, direct[i])
		other := meanDiff(t, img, direct[1-i])
		if own >= other/2 {
			t.Errorf("page %d (%s): diff to own render %.2f, to other card %.2f", i, cards[i].Name, own, other)
		}
	}
}

func TestRenderAllEmpty(t *testing.T) {
	rasters, err := NewBatch(NewRenderer(nil)).RenderAll(context.Background(), nil, Spec{Width: 450, Height: 150})
	if err != nil {
		t.Fatalf("RenderAll(nil) error: %v", err)
	}
	if len(rasters) != 0 {
		t.Errorf("RenderAll(nil) returned %d rasters", len(rasters))
	}
}

func TestRenderAllInvalidSpecRendersNothing(t *testing.T) {
	r := newGatedRenderer(2)
	_, err := NewBatch(r).RenderAll(context.Background(), numberedCards(2), Spec{Width: 0, Height: 10})
	if !errors.Is(err, errors.ErrCodeInvalidSpec) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidSpec)
	}
	if len(r.order) != 0 {
		t.Errorf("rendered %d cards before rejecting the spec", len(r.order))
	}
}

func TestRenderAllReportsCardIndex(t *testing.T) {
	r := failingRenderer{failAt: 2, inner: NewRenderer(nil)}
	_, err := NewBatch(r, WithWorkers(1)).RenderAll(context.Background(), numberedCards(4), Spec{Width: 100, Height: 40})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("error = %v, want %s in chain", err, errors.ErrCodeFontNotFound)
	}
	if got := errors.UserMessage(err); got != "card 2 (3)" {
		t.Errorf("UserMessage = %q, want %q", got, "card 2 (3)")
	}
}

func TestRenderAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatch(NewRenderer(nil)).RenderAll(ctx, numberedCards(3), Spec{Width: 100, Height: 40})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "labels")
	cards := []card.Card{pikachu, charizard, {Number: "58/102", Name: "Pikachu", Rarity: "Common", SetName: "Base Set"}}
	spec := Spec{Width: 450, Height: 150}

	paths, err := NewBatch(NewRenderer(nil), WithWorkers(2)).WriteDir(context.Background(), cards, spec, dir)
	if err != nil {
		t.Fatalf("WriteDir error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "label_58.png"),
		filepath.Join(dir, "label_4.png"),
		filepath.Join(dir, "label_58-102.png"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if b := img.Bounds(); b.Dx() != spec.Width || b.Dy() != spec.Height {
			t.Errorf("%s is %dx%d, want %dx%d", p, b.Dx(), b.Dy(), spec.Width, spec.Height)
		}
	}
}

func TestWriteDirUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewBatch(NewRenderer(nil)).WriteDir(context.Background(), []card.Card{pikachu}, Spec{Width: 100, Height: 40}, filepath.Join(blocker, "out"))
	if !errors.Is(err, errors.ErrCodeIOFailure) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeIOFailure)
	}
}

func TestFileNames(t *testing.T) {
	cards := []card.Card{
		{Number: "4"},
		{Number: "4", Finish: "Reverse Holo"},
		{},
		{UniqueID: "abc"},
		{Number: "4", Finish: "1st Edition"},
	}
	got, err := FileNames(cards)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"label_4.png", "label_4_2.png", "label_3.png", "label_abc.png", "label_4_3.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FileNames() = %v, want %v", got, want)
	}
}
