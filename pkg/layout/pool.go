package layout

import (
	"image"
	"image/draw"
	"sync"

	"github.com/google/uuid"

	"github.com/framelight76/photowall/util"
	"github.com/framelight76/photowall/util/log"
)

// PixelFormat selects the pixel layout of a pooled buffer.
type PixelFormat int

const (
	// FormatRGBA is the full-alpha premultiplied format used for output
	// surfaces and intermediate crops.
	FormatRGBA PixelFormat = iota
	// FormatNRGBA is the straight-alpha format imaging operations produce.
	FormatNRGBA
)

// maxSpareBuffers caps how many released buffers a size bucket retains.
// Buffers released beyond the cap are discarded for the GC.
const maxSpareBuffers = 3

// PixelBuffer is an owned raster handed out by the Pool. A buffer belongs
// to exactly one caller between Acquire and Release.
type PixelBuffer struct {
	ID     string
	Format PixelFormat
	Img    draw.Image
}

// Bounds returns the buffer's pixel bounds.
func (b *PixelBuffer) Bounds() image.Rectangle { return b.Img.Bounds() }

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.Img.Bounds().Dx() }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.Img.Bounds().Dy() }

type bucketKey struct {
	w, h   int
	format PixelFormat
}

// Pool is a size-keyed cache of reusable pixel buffers. All methods are
// safe for concurrent use; a single lock serializes every operation.
// The pool is an explicit handle, never a process-wide singleton.
type Pool struct {
	mu     sync.Mutex
	free   map[bucketKey][]*PixelBuffer
	inUse  map[string]bucketKey
	allocs *util.SafeCounter
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{
		free:   make(map[bucketKey][]*PixelBuffer),
		inUse:  make(map[string]bucketKey),
		allocs: util.NewSafeInt(),
	}
}

// Acquire returns a zero-filled buffer of the requested size and format,
// reusing a pooled buffer when the matching bucket has one. The buffer is
// marked in-use until released. Returns nil for non-positive dimensions.
func (p *Pool) Acquire(w, h int, format PixelFormat) *PixelBuffer {
	if w <= 0 || h <= 0 {
		log.Printf("pool: rejected acquire of %dx%d buffer", w, h)
		return nil
	}
	key := bucketKey{w: w, h: h, format: format}

	p.mu.Lock()
	defer p.mu.Unlock()

	if bucket := p.free[key]; len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.free[key] = bucket[:len(bucket)-1]
		zeroFill(buf.Img)
		p.inUse[buf.ID] = key
		return buf
	}

	buf := &PixelBuffer{
		ID:     uuid.NewString(),
		Format: format,
		Img:    newRaster(w, h, format),
	}
	p.allocs.Increment()
	p.inUse[buf.ID] = key
	return buf
}

// Release returns a buffer to its size bucket. Buffers that were not
// acquired from this pool (or were already released) are rejected and the
// call is a no-op. When the bucket already holds maxSpareBuffers spares the
// buffer is discarded instead of pooled.
func (p *Pool) Release(buf *PixelBuffer) bool {
	if buf == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key, ok := p.inUse[buf.ID]
	if !ok {
		log.Printf("pool: ignoring release of foreign buffer %s", buf.ID)
		return false
	}
	delete(p.inUse, buf.ID)

	if len(p.free[key]) >= maxSpareBuffers {
		return true // released, but not pooled
	}
	p.free[key] = append(p.free[key], buf)
	return true
}

// Clear discards all pooled buffers and forgets in-use tracking. Intended
// for low-memory callbacks from the hosting environment; outstanding
// buffers stay valid but can no longer be returned to the pool.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = make(map[bucketKey][]*PixelBuffer)
	p.inUse = make(map[string]bucketKey)
}

// PoolStats is a snapshot of pool occupancy.
type PoolStats struct {
	Pooled    int // spare buffers waiting in buckets
	InUse     int // buffers currently acquired
	Allocated int // total fresh allocations since creation
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	pooled := 0
	for _, bucket := range p.free {
		pooled += len(bucket)
	}
	return PoolStats{
		Pooled:    pooled,
		InUse:     len(p.inUse),
		Allocated: p.allocs.Value(),
	}
}

func newRaster(w, h int, format PixelFormat) draw.Image {
	r := image.Rect(0, 0, w, h)
	if format == FormatNRGBA {
		return image.NewNRGBA(r)
	}
	return image.NewRGBA(r)
}

func zeroFill(img draw.Image) {
	switch m := img.(type) {
	case *image.RGBA:
		clear(m.Pix)
	case *image.NRGBA:
		clear(m.Pix)
	default:
		b := img.Bounds()
		draw.Draw(img, b, image.Transparent, image.Point{}, draw.Src)
	}
}
