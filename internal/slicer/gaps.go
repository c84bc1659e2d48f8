package slicer

import (
	"image"
	"math"
)

// Gap is a horizontal band of whitespace wide enough and far enough from the
// page edges to host a cut between two slices.
type Gap struct {
	StartY  int     // first whitespace row
	EndY    int     // first non-whitespace row after the band
	Height  int     // EndY - StartY
	CenterY float64 // vertical center of the band
	Score   float64 // 0-1, higher is a more desirable cut location
}

// GapDetector scans a rendered page row by row and collects whitespace bands.
type GapDetector struct {
	WhitespaceThreshold float64 // fraction of white pixels for a row to count as whitespace
	MinGapHeight        int     // bands shorter than this are ignored (pixels)
	EdgeMargin          int     // bands centered within this distance of a page edge are ignored (pixels)
	CenterBias          float64 // how strongly scoring favors bands near the vertical middle
}

// NewGapDetector creates a detector with default settings.
func NewGapDetector() *GapDetector {
	return &GapDetector{
		WhitespaceThreshold: 0.95,
		MinGapHeight:        15,
		EdgeMargin:          50,
		CenterBias:          0.2,
	}
}

// whitePixelBrightness is the normalized channel mean above which a pixel
// counts as white. Anti-aliased text edges fall below it.
const whitePixelBrightness = 0.9

// maxScoredGapHeight caps the size component of a gap's score; bands taller
// than this are not rewarded further.
const maxScoredGapHeight = 50.0

// DetectGaps finds the whitespace bands of a page using det, or default
// settings when det is nil.
func DetectGaps(img *image.RGBA, det *GapDetector) []Gap {
	return det.Detect(img)
}

// Detect returns the whitespace bands of a page in top-to-bottom order.
// It never fails: a page with no qualifying bands yields an empty list.
// Only Pix is read; no reference to the buffer is kept after returning.
func (d *GapDetector) Detect(img *image.RGBA) []Gap {
	if d == nil {
		d = NewGapDetector()
	}
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil
	}

	white := d.classifyRows(img)
	return d.collectGaps(white, bounds.Dy())
}

// classifyRows marks each row whose white-pixel fraction meets the threshold.
// The decision is a row-level aggregate: a lone dark speck does not disqualify
// an otherwise blank row.
func (d *GapDetector) classifyRows(img *image.RGBA) []bool {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	white := make([]bool, h)
	needed := d.WhitespaceThreshold * float64(w)

	for y := 0; y < h; y++ {
		offset := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := img.Pix[offset : offset+w*4]

		count := 0
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			// Unweighted channel mean; alpha carries no ink information.
			brightness := (float64(p[0]) + float64(p[1]) + float64(p[2])) / (3 * 255)
			if brightness > whitePixelBrightness {
				count++
			}
		}
		white[y] = float64(count) >= needed
	}

	return white
}

// collectGaps groups contiguous whitespace rows into bands and keeps the ones
// that qualify as cut candidates.
func (d *GapDetector) collectGaps(white []bool, pageHeight int) []Gap {
	gaps := []Gap{}
	runStart := -1

	for y := 0; y <= len(white); y++ {
		if y < len(white) && white[y] {
			if runStart < 0 {
				runStart = y
			}
			continue
		}
		if runStart >= 0 {
			if gap, ok := d.qualify(runStart, y, pageHeight); ok {
				gaps = append(gaps, gap)
			}
			runStart = -1
		}
	}

	return gaps
}

// qualify filters a whitespace run by height and edge margin, and scores it.
func (d *GapDetector) qualify(startY, endY, pageHeight int) (Gap, bool) {
	height := endY - startY
	if height < d.MinGapHeight {
		return Gap{}, false
	}

	// A band centered inside the margin would cut off a near-empty sliver at
	// the top or bottom of the page (headers, footers, page numbers).
	center := float64(startY) + float64(height)/2
	if center <= float64(d.EdgeMargin) || center >= float64(pageHeight-d.EdgeMargin) {
		return Gap{}, false
	}

	sizeScore := math.Min(float64(height)/maxScoredGapHeight, 1)
	centerScore := 1 - math.Abs(center/float64(pageHeight)-0.5)*d.CenterBias

	return Gap{
		StartY:  startY,
		EndY:    endY,
		Height:  height,
		CenterY: center,
		Score:   sizeScore * centerScore,
	}, true
}
