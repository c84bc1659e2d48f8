package assemble

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientPage builds a page whose red channel encodes the row number, so
// tests can verify which page rows ended up in a slice.
func gradientPage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(y % 256), A: 255})
		}
	}
	return img
}

func TestBuildTilesPage(t *testing.T) {
	page := gradientPage(100, 900)
	cuts := []int{0, 300, 600, 900}

	slices := New(0, 0).Build(page, cuts)
	require.Len(t, slices, 3)

	covered := 0
	for i, s := range slices {
		assert.Equal(t, cuts[i], s.Top)
		assert.Equal(t, cuts[i+1], s.Bottom)
		assert.Equal(t, s.Bottom-s.Top, s.Image.Bounds().Dy())
		assert.Equal(t, 100, s.Image.Bounds().Dx())
		covered += s.Bottom - s.Top
	}
	assert.Equal(t, 900, covered, "slices must tile the page exactly")

	// First image row of the second slice is page row 300.
	assert.Equal(t, uint8(300%256), slices[1].Image.RGBAAt(0, 0).R)
}

func TestBuildOverlapPadding(t *testing.T) {
	page := gradientPage(50, 600)
	cuts := []int{0, 200, 400, 600}

	slices := New(30, 0).Build(page, cuts)
	require.Len(t, slices, 3)

	// The first slice never gets padding.
	assert.Equal(t, 0, slices[0].Overlap)
	assert.Equal(t, 200, slices[0].Image.Bounds().Dy())

	// Later slices repeat 30 rows of their predecessor.
	for _, s := range slices[1:] {
		assert.Equal(t, 30, s.Overlap)
		assert.Equal(t, s.Bottom-s.Top+30, s.Image.Bounds().Dy())
		// Image starts at page row Top-Overlap.
		assert.Equal(t, uint8((s.Top-30)%256), s.Image.RGBAAt(0, 0).R)
	}

	// Top/Bottom still tile the page; padding lives only in the pixels.
	assert.Equal(t, slices[0].Bottom, slices[1].Top)
	assert.Equal(t, slices[1].Bottom, slices[2].Top)
}

func TestBuildOverlapClampedAtPageTop(t *testing.T) {
	page := gradientPage(50, 300)
	cuts := []int{0, 20, 300}

	slices := New(50, 0).Build(page, cuts)
	require.Len(t, slices, 2)

	// Only 20 rows exist above the second cut.
	assert.Equal(t, 20, slices[1].Overlap)
	assert.Equal(t, 300, slices[1].Image.Bounds().Dy())
	assert.Equal(t, uint8(0), slices[1].Image.RGBAAt(0, 0).R)
}

func TestBuildScalesToViewportWidth(t *testing.T) {
	page := gradientPage(200, 400)
	cuts := []int{0, 200, 400}

	slices := New(0, 100).Build(page, cuts)
	require.Len(t, slices, 2)

	for _, s := range slices {
		assert.Equal(t, 100, s.Image.Bounds().Dx())
		assert.Equal(t, 100, s.Image.Bounds().Dy(), "aspect ratio preserved")
		// Raw coordinates stay in page space.
		assert.Equal(t, 200, s.Bottom-s.Top)
	}
}

func TestBuildDegenerateInput(t *testing.T) {
	assert.Nil(t, New(0, 0).Build(nil, []int{0, 100}))
	assert.Nil(t, New(0, 0).Build(gradientPage(10, 10), []int{0}))
	assert.Nil(t, New(0, 0).Build(gradientPage(10, 10), nil))
}
