package source

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gen2brain/go-fitz"
)

// Source supplies rendered page buffers to the slicing pipeline.
type Source interface {
	PageCount() int
	PageDimensions(index int) (width, height float64, err error)
	// RenderPage rasterizes a page into a tightly packed RGBA buffer
	// (stride = 4*width, origin at 0,0). Safe for concurrent use across
	// distinct pages.
	RenderPage(index int, dpi int) (*image.RGBA, error)
	Close() error
}

// PDFSource renders PDF pages through MuPDF.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path}, nil
}

func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

func (s *PDFSource) PageDimensions(index int) (float64, float64, error) {
	rect, err := s.doc.Bound(index)
	if err != nil {
		return 0, 0, fmt.Errorf("page %d bounds: %w", index, err)
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (s *PDFSource) RenderPage(index int, dpi int) (*image.RGBA, error) {
	// MuPDF documents are not safe for concurrent rendering; each call opens
	// its own handle so pages can be rasterized in parallel.
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", s.path, err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	return packedRGBA(img), nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}

// packedRGBA returns img as a zero-origin RGBA buffer with a tight stride,
// copying only when the input does not already satisfy that layout.
func packedRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok &&
		rgba.Stride == bounds.Dx()*4 && bounds.Min == (image.Point{}) {
		return rgba
	}

	packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
	return packed
}
