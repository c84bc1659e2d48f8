package slicer

import (
	"image"
	"math"
	"sort"
)

const (
	// minCutSpacing is the fraction of the target height a gap must clear
	// from the previous cut before it is taken.
	minCutSpacing = 0.5
	// forcedCutSpacing and forcedCutScore form an independent safety net:
	// once a slice has grown past a full target height, any reasonably
	// scored gap is taken even if the primary check was tightened.
	forcedCutSpacing = 1.0
	forcedCutScore   = 0.2
	// tailAbsorb is the fraction of the target height below which a trailing
	// segment is merged into the final slice instead of becoming its own.
	tailAbsorb = 0.3
)

// SelectCutPoints analyzes a rendered page and returns the slice boundaries:
// a strictly increasing sequence of Y coordinates starting at 0 and ending at
// the page height. Slice i spans [cuts[i], cuts[i+1]). det may be nil for
// default detection settings. Degenerate input never fails; the minimal
// sequence [0, H] is returned instead.
func SelectCutPoints(img *image.RGBA, targetHeight int, det *GapDetector) []int {
	var pageHeight int
	if img != nil {
		pageHeight = img.Bounds().Dy()
	}
	// A target at least the page height means the whole page fits one slice.
	if pageHeight <= 0 || targetHeight <= 0 || targetHeight >= pageHeight {
		return []int{0, pageHeight}
	}
	if det == nil {
		det = NewGapDetector()
	}
	return selectFromGaps(pageHeight, targetHeight, det.Detect(img))
}

// selectFromGaps walks the gaps in center order and greedily places cuts that
// keep slices close to the target height, falling back to even spacing when
// the page offered no usable whitespace.
func selectFromGaps(pageHeight, targetHeight int, gaps []Gap) []int {
	if pageHeight <= 0 || targetHeight <= 0 {
		return []int{0, max(pageHeight, 0)}
	}
	if len(gaps) == 0 {
		return evenCutPoints(pageHeight, targetHeight)
	}

	sorted := make([]Gap, len(gaps))
	copy(sorted, gaps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CenterY < sorted[j].CenterY
	})

	target := float64(targetHeight)
	cuts := []int{0}
	lastCut := 0

	for _, gap := range sorted {
		distance := gap.CenterY - float64(lastCut)
		take := distance >= minCutSpacing*target ||
			(distance >= forcedCutSpacing*target && gap.Score > forcedCutScore)
		if !take {
			// Too close to the previous cut to be worth a short slice.
			continue
		}
		cut := int(math.Round(gap.CenterY))
		cuts = append(cuts, cut)
		lastCut = cut
	}

	if float64(pageHeight-lastCut) > tailAbsorb*target || len(cuts) == 1 {
		// The remainder is tall enough to stand as its own slice.
		if lastCut < pageHeight {
			cuts = append(cuts, pageHeight)
		} else {
			cuts[len(cuts)-1] = pageHeight
		}
	} else {
		// Absorb the short remainder into the final slice.
		cuts[len(cuts)-1] = pageHeight
	}

	return cuts
}

// evenCutPoints splits the page into equal segments of the target height,
// absorbing a short trailing remainder into the final slice.
func evenCutPoints(pageHeight, targetHeight int) []int {
	cuts := []int{0}
	for y := targetHeight; float64(pageHeight-y) > tailAbsorb*float64(targetHeight); y += targetHeight {
		cuts = append(cuts, y)
	}
	return append(cuts, pageHeight)
}
