package system

import (
	"image"
	"sync"
)

// imagePool recycles *image.RGBA buffers keyed by size, cutting allocation
// churn when the engine crops thousands of slices of the same dimensions.
type imagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &imagePool{
	pools: make(map[string]*sync.Pool),
}

// GetImage returns a recycled *image.RGBA for rect or allocates a fresh one.
// The pixel contents are undefined; callers overwrite the full buffer.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.get(rect)
}

// PutImage hands a buffer back for reuse. Callers must not touch the image
// afterwards.
func PutImage(img *image.RGBA) {
	globalPool.put(img)
}

func (p *imagePool) get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *imagePool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
