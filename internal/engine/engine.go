package engine

import (
	"context"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mkravets/pageslice/internal/assemble"
	"github.com/mkravets/pageslice/internal/config"
	"github.com/mkravets/pageslice/internal/manifest"
	"github.com/mkravets/pageslice/internal/slicer"
	"github.com/mkravets/pageslice/internal/source"
	"github.com/mkravets/pageslice/internal/system"
)

const manifestVersion = "1.0"

// Project runs the render -> analyze -> assemble pipeline for one document.
type Project struct {
	Config *config.Config
	Source source.Source
}

func NewProject(cfg *config.Config, src source.Source) *Project {
	return &Project{Config: cfg, Source: src}
}

// Run slices every page, writes the slice images and manifest.yaml into the
// output directory, and returns the manifest. Pages are processed by a
// bounded worker pool; each page's analysis is independent, and its buffers
// are released as soon as its slices are written.
func (p *Project) Run(ctx context.Context) (*manifest.Manifest, error) {
	pageCount := p.Source.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("source %s has no pages", p.Config.InputPath)
	}

	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	det := p.detector()
	asm := assemble.New(p.Config.Overlap, p.Config.ViewportWidth)
	workers := system.RenderWorkers(p.Config.Workers, pageCount, p.Config.DPI)

	fmt.Printf("[*] Source: %s | Pages: %d | Workers: %d | DPI: %d\n",
		p.Config.InputPath, pageCount, workers, p.Config.DPI)

	pages := make([]manifest.Page, pageCount)
	var done atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			page, err := p.processPage(i, det, asm)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			pages[i] = page

			fmt.Printf("[>] Ready: %d/%d (%d slices)\n",
				done.Add(1), pageCount, len(page.Slices))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &manifest.Manifest{
		Version:     manifestVersion,
		Source:      p.Config.InputPath,
		DPI:         p.Config.DPI,
		SliceHeight: p.Config.SliceHeight,
		Pages:       pages,
	}

	manifestPath := filepath.Join(p.Config.OutputDir, "manifest.yaml")
	if err := manifest.Write(m, manifestPath); err != nil {
		return nil, err
	}

	fmt.Printf("[+] Manifest: %s\n", manifestPath)
	return m, nil
}

// processPage renders one page, selects its cut points, and writes its
// slice images.
func (p *Project) processPage(index int, det *slicer.GapDetector, asm *assemble.Assembler) (manifest.Page, error) {
	img, err := p.Source.RenderPage(index, p.Config.DPI)
	if err != nil {
		return manifest.Page{}, err
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	cuts := slicer.SelectCutPoints(img, p.targetHeight(width), det)
	slices := asm.Build(img, cuts)

	entries := make([]manifest.Slice, 0, len(slices))
	for j, s := range slices {
		name := fmt.Sprintf("page_%03d_slice_%02d.png", index, j)
		if err := writePNG(filepath.Join(p.Config.OutputDir, name), s); err != nil {
			return manifest.Page{}, err
		}
		entries = append(entries, manifest.Slice{
			Top:     s.Top,
			Bottom:  s.Bottom,
			Overlap: s.Overlap,
			Image:   name,
		})
	}

	return manifest.Page{
		Index:     index,
		Width:     width,
		Height:    height,
		CutPoints: cuts,
		Slices:    entries,
	}, nil
}

// targetHeight is the desired slice height in render pixels. An explicit
// SliceHeight wins; otherwise the viewport height is scaled by the ratio of
// the rendered page width to the viewport width, so one slice fills one
// screen. A page as wide as it is tall is the last resort.
func (p *Project) targetHeight(pageWidth int) int {
	if p.Config.SliceHeight > 0 {
		return p.Config.SliceHeight
	}
	vw, vh := p.Config.ViewportWidth, p.Config.ViewportHeight
	if vw <= 0 || vh <= 0 || pageWidth <= 0 {
		return pageWidth
	}
	t := int(math.Round(float64(vh) * float64(pageWidth) / float64(vw)))
	if t < 1 {
		t = 1
	}
	return t
}

// detector builds the gap detector with any config overrides applied.
func (p *Project) detector() *slicer.GapDetector {
	det := slicer.NewGapDetector()
	if p.Config.WhitespaceThreshold > 0 {
		det.WhitespaceThreshold = p.Config.WhitespaceThreshold
	}
	if p.Config.MinGapHeight > 0 {
		det.MinGapHeight = p.Config.MinGapHeight
	}
	if p.Config.EdgeMargin > 0 {
		det.EdgeMargin = p.Config.EdgeMargin
	}
	if p.Config.CenterBias > 0 {
		det.CenterBias = p.Config.CenterBias
	}
	return det
}

func writePNG(path string, s assemble.Slice) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(f, s.Image)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	assemble.Release(s)

	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
