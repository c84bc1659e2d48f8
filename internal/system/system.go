package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RenderWorkers sizes the page-rendering pool. A requested value wins; zero
// means one worker per logical CPU, capped so that concurrent page buffers at
// the given DPI fit in half of the available memory, and never more workers
// than pages.
func RenderWorkers(requested, pageCount, dpi int) int {
	workers := requested
	if workers <= 0 {
		workers = logicalCPUs()
	}
	if limit := memoryWorkerLimit(dpi); limit > 0 && workers > limit {
		workers = limit
	}
	if pageCount > 0 && workers > pageCount {
		workers = pageCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func logicalCPUs() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// memoryWorkerLimit estimates how many page buffers fit in half of the
// available memory. A US Letter page at the given DPI stands in for the
// typical page size. Returns 0 when no limit can be derived.
func memoryWorkerLimit(dpi int) int {
	if dpi <= 0 {
		return 0
	}
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Available == 0 {
		return 0
	}

	const letterWidthIn, letterHeightIn = 8.5, 11.0
	pageBytes := uint64(letterWidthIn*float64(dpi)) * uint64(letterHeightIn*float64(dpi)) * 4
	if pageBytes == 0 {
		return 0
	}

	limit := vm.Available / 2 / pageBytes
	if limit > uint64(runtime.NumCPU()*4) {
		limit = uint64(runtime.NumCPU() * 4)
	}
	return int(limit)
}

// FindLatestPDF returns the most recently modified PDF in dir.
func FindLatestPDF(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".pdf") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no PDF files found in %s", dir)
	}
	return latestFile, nil
}
