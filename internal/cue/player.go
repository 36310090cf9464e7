package cue

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/olivier-w/driftboard/internal/expansion"
)

// Sink plays clips.
type Sink interface {
	Play(c Clip)
}

// Nop discards every clip.
type Nop struct{}

func (Nop) Play(Clip) {}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Speaker plays clips on the default audio device. Overlapping clips mix.
type Speaker struct {
	ctx     *oto.Context
	volume  float64
	playing []*oto.Player
}

// NewSpeaker opens the audio device.
func NewSpeaker(volume float64) (*Speaker, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	return &Speaker{ctx: ctx, volume: volume}, nil
}

// Play starts c and returns immediately.
func (s *Speaker) Play(c Clip) {
	if len(c) == 0 {
		return
	}
	// Drop finished players; live ones must stay referenced until done.
	live := s.playing[:0]
	for _, p := range s.playing {
		if p.IsPlaying() {
			live = append(live, p)
		}
	}
	s.playing = live

	p := s.ctx.NewPlayer(bytes.NewReader(c))
	p.SetVolume(s.volume)
	p.Play()
	s.playing = append(s.playing, p)
}

// Cues plays the bank's clips in response to expansion transitions.
type Cues struct {
	bank Bank
	sink Sink
	log  *slog.Logger
}

// New binds a bank to a sink. A nil sink discards.
func New(bank Bank, sink Sink, log *slog.Logger) *Cues {
	if sink == nil {
		sink = Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cues{bank: bank, sink: sink, log: log}
}

// Play plays the clip for k, if the bank has one.
func (c *Cues) Play(k Kind) {
	clip, ok := c.bank[k]
	if !ok {
		return
	}
	c.log.Debug("cue", "kind", k)
	c.sink.Play(clip)
}

// OnTransition implements expansion.Listener.
func (c *Cues) OnTransition(from, to expansion.State, _ string) {
	switch {
	case to == expansion.Expanding:
		c.Play(Open)
	case to == expansion.Collapsing:
		c.Play(Close)
	case to == expansion.Idle && from != expansion.Collapsing:
		c.Play(Reset)
	}
}
