// Package assemble turns cut points into cropped, viewport-ready slice
// images. The geometry here is deliberately simple: consecutive cut pairs
// tile the page exactly, and continuity padding is added on top of that.
package assemble

import (
	"image"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/mkravets/pageslice/internal/system"
)

// Slice is one horizontal crop of a page, the unit of reading navigation.
type Slice struct {
	Top     int // first row of the slice in page coordinates
	Bottom  int // one past the last row
	Overlap int // rows duplicated from the previous slice for visual continuity
	Image   *image.RGBA
}

// Assembler crops slices out of rendered pages.
type Assembler struct {
	// Overlap is how many rows of the previous slice are repeated at the top
	// of each slice after the first. Clamped at the page top.
	Overlap int
	// ViewportWidth scales slice images to this width, preserving aspect.
	// Zero keeps the rendered width.
	ViewportWidth int
}

func New(overlap, viewportWidth int) *Assembler {
	if overlap < 0 {
		overlap = 0
	}
	return &Assembler{Overlap: overlap, ViewportWidth: viewportWidth}
}

// Build converts a cut-point sequence into cropped slices of page. The Top
// and Bottom of consecutive slices tile [0, H) exactly; only Image carries
// the overlap rows. Returned images come from the shared buffer pool; hand
// them back with Release once written out.
func (a *Assembler) Build(page *image.RGBA, cuts []int) []Slice {
	if page == nil || len(cuts) < 2 {
		return nil
	}

	slices := make([]Slice, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		top, bottom := cuts[i], cuts[i+1]

		overlap := 0
		if i > 0 {
			overlap = a.Overlap
			if overlap > top {
				overlap = top
			}
		}

		img := a.crop(page, top-overlap, bottom)
		if a.ViewportWidth > 0 && a.ViewportWidth != img.Bounds().Dx() {
			scaled := a.scale(img)
			system.PutImage(img)
			img = scaled
		}

		slices = append(slices, Slice{
			Top:     top,
			Bottom:  bottom,
			Overlap: overlap,
			Image:   img,
		})
	}

	return slices
}

// Release returns a slice's image buffer to the pool.
func Release(s Slice) {
	system.PutImage(s.Image)
}

// crop copies page rows [top, bottom) into a zero-origin buffer.
func (a *Assembler) crop(page *image.RGBA, top, bottom int) *image.RGBA {
	bounds := page.Bounds()
	w := bounds.Dx()

	dst := system.GetImage(image.Rect(0, 0, w, bottom-top))
	src := image.Pt(bounds.Min.X, bounds.Min.Y+top)
	stddraw.Draw(dst, dst.Bounds(), page, src, stddraw.Src)
	return dst
}

// scale resizes a crop to the viewport width, preserving aspect ratio.
func (a *Assembler) scale(img *image.RGBA) *image.RGBA {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	dstH := (srcH*a.ViewportWidth + srcW/2) / srcW
	if dstH < 1 {
		dstH = 1
	}

	dst := system.GetImage(image.Rect(0, 0, a.ViewportWidth, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
