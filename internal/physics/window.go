package physics

import "github.com/olivier-w/driftboard/internal/geom"

// sampleWindow is a fixed-size circular buffer of per-move displacements
// used to estimate release velocity.
type sampleWindow struct {
	buf  []geom.Vec
	size int
	w    int // write position
	len  int // current fill level
}

func newSampleWindow(size int) *sampleWindow {
	if size < 1 {
		size = 1
	}
	return &sampleWindow{
		buf:  make([]geom.Vec, size),
		size: size,
	}
}

// push appends a sample, overwriting the oldest if full.
func (sw *sampleWindow) push(v geom.Vec) {
	sw.buf[sw.w] = v
	sw.w = (sw.w + 1) % sw.size
	if sw.len < sw.size {
		sw.len++
	}
}

// mean returns the average of the held samples, or the zero vector.
func (sw *sampleWindow) mean() (geom.Vec, bool) {
	if sw.len == 0 {
		return geom.Vec{}, false
	}
	var sum geom.Vec
	start := (sw.w - sw.len + sw.size) % sw.size
	for i := range sw.len {
		sum = sum.Add(sw.buf[(start+i)%sw.size])
	}
	return sum.Scale(1 / float64(sw.len)), true
}

func (sw *sampleWindow) count() int { return sw.len }

func (sw *sampleWindow) clear() {
	sw.w = 0
	sw.len = 0
}
