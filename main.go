package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/driftboard/internal/cue"
	"github.com/olivier-w/driftboard/internal/ui"
)

func main() {
	cfg := ui.DefaultConfig()

	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames per second")
	flag.DurationVar(&cfg.Gesture.TapWindow, "tap", cfg.Gesture.TapWindow, "longest press that still counts as a tap")
	flag.Float64Var(&cfg.Gesture.MoveThreshold, "move", cfg.Gesture.MoveThreshold, "pointer travel in pixels that turns a press into a drag")
	flag.IntVar(&cfg.Stars, "stars", cfg.Stars, "number of background stars")
	flag.Int64Var(&cfg.Harmonic.Seed, "seed", cfg.Harmonic.Seed, "background scene seed")
	flag.BoolVar(&cfg.Simplex, "simplex", false, "drift some stars on simplex noise")
	flag.BoolVar(&cfg.Debug, "debug", false, "show the frame statistics line")
	cues := flag.Bool("cues", false, "play sound cues on expand and collapse")
	cueDir := flag.String("cue-dir", "", "directory of open.wav, close.wav, reset.wav, release.wav overrides")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	logger, closeLog, err := openLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)
	cfg.Logger = logger

	if *cues {
		c, err := openCues(*cueDir, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Cues = c
	}

	slog.Info("driftboard starting", "fps", cfg.FPS, "stars", cfg.Stars, "seed", cfg.Harmonic.Seed)

	p := tea.NewProgram(ui.New(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openLog returns a text logger writing to path. The terminal belongs to
// the UI, so without a path logs are discarded.
func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	logger.Info("log opened", "time", time.Now().Format(time.RFC3339))
	return logger, func() { f.Close() }, nil
}

// openCues loads the cue bank and opens the audio device. A missing device
// is not fatal: cues are silently dropped.
func openCues(dir string, logger *slog.Logger) (*cue.Cues, error) {
	bank, err := cue.LoadBank(dir)
	if err != nil {
		return nil, err
	}
	var sink cue.Sink = cue.Nop{}
	if sp, err := cue.NewSpeaker(0.6); err != nil {
		logger.Warn("audio unavailable, cues disabled", "error", err)
	} else {
		sink = sp
	}
	return cue.New(bank, sink, logger.With("component", "cue")), nil
}
