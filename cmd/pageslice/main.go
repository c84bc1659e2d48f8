package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mkravets/pageslice/internal/config"
	"github.com/mkravets/pageslice/internal/engine"
	"github.com/mkravets/pageslice/internal/source"
	"github.com/mkravets/pageslice/internal/system"
)

var buildVersion = "dev"

func main() {
	inputPtr := flag.String("input", "", "PDF file or directory of page images (default: latest PDF in input/pdf/)")
	outputPtr := flag.String("output", "", "Output directory for slices and manifest (default: output/<name>/)")
	dpiPtr := flag.Int("dpi", 150, "Render resolution")
	viewportWidthPtr := flag.Int("viewport-width", 412, "Reader viewport width in CSS pixels")
	viewportHeightPtr := flag.Int("viewport-height", 790, "Reader viewport height in CSS pixels")
	sliceHeightPtr := flag.Int("slice-height", 0, "Target slice height in render pixels (0 = derive from viewport)")
	overlapPtr := flag.Int("overlap", 24, "Rows repeated at the top of each slice for continuity")
	workersPtr := flag.Int("workers", 0, "Concurrent page workers (0 = auto)")
	thresholdPtr := flag.Float64("whitespace-threshold", 0, "Fraction of white pixels for a whitespace row (0 = default 0.95)")
	minGapPtr := flag.Int("min-gap", 0, "Minimum whitespace band height in pixels (0 = default 15)")
	edgeMarginPtr := flag.Int("edge-margin", 0, "Ignore bands centered this close to page edges (0 = default 50)")
	centerBiasPtr := flag.Float64("center-bias", 0, "Scoring bias toward mid-page bands (0 = default 0.2)")

	flag.Parse()

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestPDF("input/pdf")
		if err != nil {
			log.Fatalf("[-] %v. Pass -input or put a PDF in input/pdf/", err)
		}
		inputPath = latest
		fmt.Printf("[*] Selected: %s\n", inputPath)
	}

	outputDir := *outputPtr
	if outputDir == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputDir = filepath.Join("output", base)
	}

	src, err := openSource(inputPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	defer src.Close()

	cfg := &config.Config{
		InputPath:           inputPath,
		OutputDir:           outputDir,
		DPI:                 *dpiPtr,
		Workers:             *workersPtr,
		ViewportWidth:       *viewportWidthPtr,
		ViewportHeight:      *viewportHeightPtr,
		SliceHeight:         *sliceHeightPtr,
		Overlap:             *overlapPtr,
		WhitespaceThreshold: *thresholdPtr,
		MinGapHeight:        *minGapPtr,
		EdgeMargin:          *edgeMarginPtr,
		CenterBias:          *centerBiasPtr,
		BuildVersion:        buildVersion,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := engine.NewProject(cfg, src).Run(ctx)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	totalSlices := 0
	for _, page := range m.Pages {
		totalSlices += len(page.Slices)
	}
	fmt.Printf("[+++] Done: %d pages, %d slices in %s\n", len(m.Pages), totalSlices, outputDir)
}

func openSource(path string) (source.Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return source.NewPDFSource(path)
	}
	return source.NewImageSource(path)
}
