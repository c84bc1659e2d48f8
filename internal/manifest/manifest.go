// Package manifest defines the YAML document a reader front end consumes to
// navigate a sliced document.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes one fully sliced document.
type Manifest struct {
	Version     string `yaml:"version"`
	Source      string `yaml:"source"`
	DPI         int    `yaml:"dpi"`
	SliceHeight int    `yaml:"slice_height"` // target slice height in render pixels
	Pages       []Page `yaml:"pages"`
}

// Page holds the analysis result for a single rendered page.
type Page struct {
	Index     int     `yaml:"index"` // zero-based page number
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	CutPoints []int   `yaml:"cut_points"`
	Slices    []Slice `yaml:"slices"`
}

// Slice references one cropped slice image and its page-space extent.
type Slice struct {
	Top     int    `yaml:"top"`
	Bottom  int    `yaml:"bottom"`
	Overlap int    `yaml:"overlap,omitempty"`
	Image   string `yaml:"image"`
}

// Write saves a manifest to a YAML file.
func Write(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Read loads a manifest from a YAML file.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
