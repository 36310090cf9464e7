// Package cue plays short sound effects on expansion transitions. Cues are
// synthesised by default and can be overridden with WAV files.
package cue

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/olivier-w/driftboard/internal/phi"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bytesPerSamp = 2 // 16-bit
	frameSize    = channelCount * bytesPerSamp
)

// Clip is 16-bit little-endian stereo PCM at 44.1 kHz.
type Clip []byte

// Frames returns the number of stereo frames in c.
func (c Clip) Frames() int { return len(c) / frameSize }

// Duration returns the playing time of c.
func (c Clip) Duration() time.Duration {
	return time.Duration(c.Frames()) * time.Second / sampleRate
}

// Frame returns the left and right samples of frame i.
func (c Clip) Frame(i int) (int16, int16) {
	off := i * frameSize
	l := int16(binary.LittleEndian.Uint16(c[off:]))
	r := int16(binary.LittleEndian.Uint16(c[off+bytesPerSamp:]))
	return l, r
}

func (c Clip) setFrame(i int, l, r int16) {
	off := i * frameSize
	binary.LittleEndian.PutUint16(c[off:], uint16(l))
	binary.LittleEndian.PutUint16(c[off+bytesPerSamp:], uint16(r))
}

// Chirp synthesises a sine sweep from one frequency to another. The
// envelope ramps in and out over the first and last tenth of the clip so
// the clip starts and ends at silence.
func Chirp(from, to float64, d time.Duration, gain float64) Clip {
	n := int(d.Seconds() * sampleRate)
	c := make(Clip, n*frameSize)
	gain = math.Max(0, math.Min(gain, 1))
	ramp := max(n/10, 1)

	var phase float64
	for i := range n {
		t := float64(i) / float64(max(n-1, 1))
		// Exponential sweep sounds even across octaves.
		f := from * math.Pow(to/from, t)
		phase += 2 * math.Pi * f / sampleRate

		env := 1.0
		if i < ramp {
			env = float64(i) / float64(ramp)
		} else if n-1-i < ramp {
			env = float64(n-1-i) / float64(ramp)
		}
		s := int16(math.Sin(phase) * env * gain * math.MaxInt16)
		c.setFrame(i, s, s)
	}
	return c
}

// Kind names a cue.
type Kind uint8

const (
	Open Kind = iota
	Close
	Reset
	Release
)

var kindNames = [...]string{"open", "close", "reset", "release"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every cue kind.
func Kinds() []Kind { return []Kind{Open, Close, Reset, Release} }

const base = 440.0

// Synth returns the built-in clip for k. Intervals are golden-ratio steps
// above or below A4.
func Synth(k Kind) Clip {
	switch k {
	case Open:
		return Chirp(base, base*phi.Phi, 180*time.Millisecond, 0.35)
	case Close:
		return Chirp(base*phi.Phi, base, 180*time.Millisecond, 0.35)
	case Reset:
		return Chirp(base/phi.Phi, base/phi.Sq, 260*time.Millisecond, 0.3)
	default:
		return Chirp(base*phi.Sq, base*phi.Phi, 60*time.Millisecond, 0.2)
	}
}
