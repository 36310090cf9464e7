package cue

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// LoadWAV reads a PCM WAV file and converts it to a Clip, resampling to
// 44.1 kHz and mapping mono to both channels.
func LoadWAV(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate < 1 {
		return nil, fmt.Errorf("WAV file %s has no usable format", path)
	}

	channels := buf.Format.NumChannels
	depth := int(dec.BitDepth)
	frames := len(buf.Data) / channels
	if frames == 0 {
		return Clip{}, nil
	}

	sample := func(frame, ch int) float64 {
		if ch >= channels {
			ch = channels - 1
		}
		return float64(to16(buf.Data[frame*channels+ch], depth))
	}

	ratio := float64(buf.Format.SampleRate) / sampleRate
	out := int(math.Round(float64(frames) / ratio))
	c := make(Clip, out*frameSize)
	for i := range out {
		pos := float64(i) * ratio
		i0 := min(int(pos), frames-1)
		i1 := min(i0+1, frames-1)
		frac := pos - float64(i0)
		l := sample(i0, 0)*(1-frac) + sample(i1, 0)*frac
		r := sample(i0, 1)*(1-frac) + sample(i1, 1)*frac
		c.setFrame(i, int16(math.Round(l)), int16(math.Round(r)))
	}
	return c, nil
}

func to16(v, depth int) int16 {
	switch depth {
	case 8:
		// 8-bit WAV is unsigned
		return int16((v - 128) << 8)
	case 24:
		return int16(v >> 8)
	case 32:
		return int16(v >> 16)
	default:
		return int16(v)
	}
}

// Bank maps cue kinds to clips.
type Bank map[Kind]Clip

// SynthBank returns the built-in clips.
func SynthBank() Bank {
	b := make(Bank)
	for _, k := range Kinds() {
		b[k] = Synth(k)
	}
	return b
}

// LoadBank starts from the built-in clips and replaces each one that has a
// <kind>.wav file in dir. A missing file keeps the built-in clip; a
// malformed one is an error.
func LoadBank(dir string) (Bank, error) {
	b := SynthBank()
	if dir == "" {
		return b, nil
	}
	for _, k := range Kinds() {
		path := filepath.Join(dir, k.String()+".wav")
		c, err := LoadWAV(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s cue: %w", k, err)
		}
		b[k] = c
	}
	return b, nil
}
