package config

// Config holds one slicing run's settings. Plain values, no runtime
// mutation of defaults; the CLI fills it from flags.
type Config struct {
	InputPath string
	OutputDir string

	// Render settings.
	DPI     int
	Workers int

	// Viewport the reader will display slices in, in CSS pixels. Used to
	// derive the target slice height at render scale when SliceHeight is 0.
	ViewportWidth  int
	ViewportHeight int

	// SliceHeight forces the target slice height in render pixels; 0 derives
	// it from the viewport per page.
	SliceHeight int
	// Overlap is the padding repeated at the top of each slice, render px.
	Overlap int

	// Gap detection overrides; zero values keep the detector defaults.
	WhitespaceThreshold float64
	MinGapHeight        int
	EdgeMargin          int
	CenterBias          float64

	BuildVersion string
}
