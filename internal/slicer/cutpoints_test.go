package slicer

import (
	"image"
	"image/color"
	"image/draw"
	"reflect"
	"testing"
)

// checkCutInvariants verifies the structural contract every result must hold:
// non-empty, strictly increasing, first 0, last pageHeight.
func checkCutInvariants(t *testing.T, cuts []int, pageHeight int) {
	t.Helper()

	if len(cuts) < 2 {
		t.Fatalf("Expected at least 2 cut points, got %v", cuts)
	}
	if cuts[0] != 0 {
		t.Errorf("First cut %d, expected 0", cuts[0])
	}
	if cuts[len(cuts)-1] != pageHeight {
		t.Errorf("Last cut %d, expected %d", cuts[len(cuts)-1], pageHeight)
	}
	for i := 1; i < len(cuts); i++ {
		if cuts[i] <= cuts[i-1] {
			t.Fatalf("Cut sequence not strictly increasing: %v", cuts)
		}
	}
}

func TestSelectCutPointsTwoBands(t *testing.T) {
	// Two 20px bands at y=300 and y=700; both clear half the 350px target
	// from the previous cut, and the 300px remainder stands as its own slice.
	img := newPage(400, 1000, [2]int{290, 310}, [2]int{690, 710})

	cuts := SelectCutPoints(img, 350, nil)
	checkCutInvariants(t, cuts, 1000)

	expected := []int{0, 300, 700, 1000}
	if !reflect.DeepEqual(cuts, expected) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectCutPointsFallbackEvenSpacing(t *testing.T) {
	// No whitespace at all: slices fall back to even target-height spacing,
	// with the 100px remainder absorbed into the final slice.
	img := newPage(300, 1000)

	cuts := SelectCutPoints(img, 300, nil)
	checkCutInvariants(t, cuts, 1000)

	expected := []int{0, 300, 600, 900, 1000}
	if !reflect.DeepEqual(cuts, expected) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectCutPointsAllWhitePage(t *testing.T) {
	// An all-white page is one giant gap centered mid-page; the greedy walk
	// accepts it and cuts at the center.
	img := image.NewRGBA(image.Rect(0, 0, 400, 1000))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	cuts := SelectCutPoints(img, 300, nil)
	checkCutInvariants(t, cuts, 1000)

	expected := []int{0, 500, 1000}
	if !reflect.DeepEqual(cuts, expected) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectCutPointsTargetExceedsPage(t *testing.T) {
	img := newPage(300, 400, [2]int{190, 210})

	cuts := SelectCutPoints(img, 500, nil)
	expected := []int{0, 400}
	if !reflect.DeepEqual(cuts, expected) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectCutPointsDegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		img    *image.RGBA
		target int
	}{
		{"nil buffer", nil, 300},
		{"zero height", image.NewRGBA(image.Rect(0, 0, 100, 0)), 300},
		{"zero target", newPage(100, 500), 0},
		{"negative target", newPage(100, 500), -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cuts := SelectCutPoints(tt.img, tt.target, nil)
			if len(cuts) != 2 || cuts[0] != 0 {
				t.Errorf("Expected minimal [0, H] sequence, got %v", cuts)
			}
		})
	}
}

func TestSelectCutPointsSkipsCloseGaps(t *testing.T) {
	// Bands at y=300 and y=360: the second is only 60px past the first cut,
	// well under half of the 300px target, so it is skipped.
	img := newPage(400, 1000, [2]int{290, 310}, [2]int{350, 370})

	cuts := SelectCutPoints(img, 300, nil)
	checkCutInvariants(t, cuts, 1000)

	expected := []int{0, 300, 1000}
	if !reflect.DeepEqual(cuts, expected) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectCutPointsAbsorbsShortTail(t *testing.T) {
	// A single band at y=950 leaves a 50px remainder, under 0.3 of the 300px
	// target; the final slice extends to the page bottom instead.
	gaps := []Gap{{StartY: 940, EndY: 960, Height: 20, CenterY: 950, Score: 0.4}}

	cuts := selectFromGaps(1000, 300, gaps)
	expected := []int{0, 1000}

	// The cut at 950 is taken, then overwritten by the tail rule.
	if !reflect.DeepEqual(cuts, []int{0, 1000}) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectFromGapsPrimaryBranchCoversForcedCuts(t *testing.T) {
	// The forced-cut branch (full target distance plus a score floor) cannot
	// trigger under the default spacing constants: any gap far enough for it
	// already passes the primary half-target check, score ignored. A gap with
	// a score below the floor at twice the target distance is still taken.
	gaps := []Gap{{StartY: 595, EndY: 605, Height: 10, CenterY: 600, Score: 0.05}}

	cuts := selectFromGaps(1000, 300, gaps)
	expected := []int{0, 600, 1000}
	if !reflect.DeepEqual(cuts, expected) {
		t.Errorf("Cuts %v, expected %v", cuts, expected)
	}
}

func TestSelectFromGapsNoAcceptedGap(t *testing.T) {
	// Every gap sits too close to the top; the result degrades to [0, H]
	// rather than losing the page bottom.
	gaps := []Gap{
		{CenterY: 60, Score: 0.5},
		{CenterY: 90, Score: 0.5},
	}

	cuts := selectFromGaps(1000, 600, gaps)
	if !reflect.DeepEqual(cuts, []int{0, 1000}) {
		t.Errorf("Cuts %v, expected [0, 1000]", cuts)
	}
}

func TestEvenCutPointsTailRule(t *testing.T) {
	tests := []struct {
		name       string
		pageHeight int
		target     int
		expected   []int
	}{
		{"remainder kept", 1000, 300, []int{0, 300, 600, 900, 1000}},
		{"remainder absorbed", 1000, 320, []int{0, 320, 640, 1000}},
		{"exact multiple", 900, 300, []int{0, 300, 600, 900}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cuts := evenCutPoints(tt.pageHeight, tt.target)
			if !reflect.DeepEqual(cuts, tt.expected) {
				t.Errorf("Cuts %v, expected %v", cuts, tt.expected)
			}
		})
	}
}

func TestSelectCutPointsFullCoverage(t *testing.T) {
	// Consecutive cut pairs must tile [0, H] with no gap or overlap for a
	// variety of page layouts.
	pages := []*image.RGBA{
		newPage(400, 1000),
		newPage(400, 1000, [2]int{290, 310}, [2]int{690, 710}),
		newPage(400, 2000, [2]int{100, 140}, [2]int{900, 930}, [2]int{1500, 1560}),
		newPage(400, 700, [2]int{60, 80}, [2]int{620, 640}),
	}

	for i, img := range pages {
		cuts := SelectCutPoints(img, 300, nil)
		checkCutInvariants(t, cuts, img.Bounds().Dy())

		covered := 0
		for j := 1; j < len(cuts); j++ {
			covered += cuts[j] - cuts[j-1]
		}
		if covered != img.Bounds().Dy() {
			t.Errorf("Page %d: slices cover %d rows of %d", i, covered, img.Bounds().Dy())
		}
	}
}
