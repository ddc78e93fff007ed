// Package document assembles label rasters into a multi-page PDF.
//
// Every raster becomes one page, in input order. Pages are JPEG-encoded at
// quality [JPEGQuality] and sized at [DPI] dots per inch, so a 450x150 pixel
// label becomes a 4.5x1.5 inch page.
//
//	doc, err := document.Assemble(ctx, rasters)
//	if err != nil {
//	    return err
//	}
//	err = doc.WriteFile("labels.pdf")
//
// An empty raster list produces a document with zero pages. Writing it is a
// no-op: Bytes returns an empty slice and WriteFile creates no file.
package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/tcglabels/pkg/errors"
	cardio "github.com/matzehuels/tcglabels/pkg/io"
)

const (
	// DPI is the resolution every page is laid out at.
	DPI = 100

	// JPEGQuality is the encoder quality for page images.
	JPEGQuality = 95
)

// epoch is stamped as the creation and modification date so identical input
// produces identical bytes.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Page is one encoded page image.
type Page struct {
	Width  int // pixels
	Height int // pixels
	jpeg   []byte
}

// JPEG returns the encoded page image.
func (p Page) JPEG() []byte { return p.jpeg }

// Size returns the page size in PDF points at DPI.
func (p Page) Size() (w, h float64) {
	return float64(p.Width) * 72 / DPI, float64(p.Height) * 72 / DPI
}

// Document is an ordered list of encoded pages.
type Document struct {
	pages []Page
}

// Assemble encodes rasters into a document, page i from rasters[i].
//
// Assemble takes ownership of the slice: each slot is set to nil as soon as
// its raster has been encoded, and every remaining slot is cleared before
// returning, whether or not encoding succeeded. A nil slot is an error.
func Assemble(ctx context.Context, rasters []image.Image) (*Document, error) {
	return AssembleArena(ctx, &Arena{slots: rasters})
}

// AssembleArena is Assemble over an [Arena]. The arena is empty on return.
func AssembleArena(ctx context.Context, a *Arena) (*Document, error) {
	defer a.Release()

	doc := &Document{pages: make([]Page, 0, a.Len())}
	for i := 0; i < a.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img := a.Take(i)
		if img == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "page %d: raster is missing", i+1)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "page %d: encode", i+1)
		}
		b := img.Bounds()
		doc.pages = append(doc.pages, Page{Width: b.Dx(), Height: b.Dy(), jpeg: buf.Bytes()})
	}
	return doc, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Pages returns the pages in order.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	copy(out, d.pages)
	return out
}

// WriteTo writes the PDF to w. A zero-page document writes nothing.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if len(d.pages) == 0 {
		return 0, nil
	}
	cw := &countingWriter{w: w}
	if err := d.pdf().Output(cw); err != nil {
		return cw.n, errors.Wrap(errors.ErrCodeIOFailure, err, "write pdf")
	}
	return cw.n, nil
}

// Bytes returns the PDF as a byte slice, empty for a zero-page document.
func (d *Document) Bytes() ([]byte, error) {
	if len(d.pages) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the PDF to path, creating parent directories.
// The file is written to a temporary sibling and renamed into place; the
// temporary file is removed on every failure path. A zero-page document
// creates no file.
func (d *Document) WriteFile(path string) error {
	if len(d.pages) == 0 {
		return nil
	}
	return cardio.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := d.WriteTo(w)
		return err
	})
}

// pdf lays out one full-bleed image per page.
func (d *Document) pdf() *fpdf.Fpdf {
	fw, fh := d.pages[0].Size()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: fw, Ht: fh},
	})
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("tcglabels", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, p := range d.pages {
		w, h := p.Size()
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.jpeg))
		pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}
	return pdf
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
