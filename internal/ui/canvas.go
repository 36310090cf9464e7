package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI16
	colorANSI256
	colorTrueColor
)

var seqCache sync.Map

// currentColorProfile follows lipgloss's detection, which honors NO_COLOR
// and the COLORTERM/TERM pair.
func currentColorProfile() colorProfile {
	return fromTermenv(lipgloss.ColorProfile())
}

func fromTermenv(p termenv.Profile) colorProfile {
	switch p {
	case termenv.TrueColor:
		return colorTrueColor
	case termenv.ANSI256:
		return colorANSI256
	case termenv.ANSI:
		return colorANSI16
	default:
		return colorNone
	}
}

var ansi16 = []colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 205.0 / 255, G: 49.0 / 255, B: 49.0 / 255},
	{R: 13.0 / 255, G: 188.0 / 255, B: 121.0 / 255},
	{R: 229.0 / 255, G: 229.0 / 255, B: 16.0 / 255},
	{R: 36.0 / 255, G: 114.0 / 255, B: 200.0 / 255},
	{R: 188.0 / 255, G: 63.0 / 255, B: 188.0 / 255},
	{R: 17.0 / 255, G: 168.0 / 255, B: 205.0 / 255},
	{R: 229.0 / 255, G: 229.0 / 255, B: 229.0 / 255},
}

func colorKey(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func colorSequence(profile colorProfile, c colorful.Color) string {
	key := uint32(profile)<<24 | colorKey(c)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	r, g, b := c.Clamped().RGB255()
	var seq string
	switch profile {
	case colorTrueColor:
		seq = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
	case colorANSI256:
		idx := 16 + 36*(int(r)*5/255) + 6*(int(g)*5/255) + int(b)*5/255
		seq = fmt.Sprintf("\x1b[38;5;%dm", idx)
	case colorANSI16:
		best := 0
		bestDist := math.MaxFloat64
		for i, p := range ansi16 {
			if d := c.DistanceRgb(p); d < bestDist {
				bestDist = d
				best = i
			}
		}
		seq = fmt.Sprintf("\x1b[%dm", 30+best)
	}

	seqCache.Store(key, seq)
	return seq
}

const noColor = ^uint32(0)

// pen writes a color escape only when the color actually changes.
type pen struct {
	profile colorProfile
	last    uint32
}

func (p *pen) ink(sb *strings.Builder, c colorful.Color) {
	if p.profile == colorNone {
		return
	}
	if k := colorKey(c); k != p.last {
		sb.WriteString(colorSequence(p.profile, c))
		p.last = k
	}
}

func (p *pen) lift(sb *strings.Builder) {
	if p.profile != colorNone && p.last != noColor {
		sb.WriteString("\x1b[0m")
		p.last = noColor
	}
}

type cell struct {
	r rune
	c colorful.Color
}

// canvas is a fixed grid of colored runes, flushed to one string per frame.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	cv := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range cv.cells {
		cv.cells[i].r = ' '
	}
	return cv
}

func (cv *canvas) set(x, y int, r rune, c colorful.Color) {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return
	}
	cv.cells[y*cv.w+x] = cell{r: r, c: c}
}

func (cv *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return 0
	}
	return cv.cells[y*cv.w+x].r
}

func (cv *canvas) text(x, y int, s string, c colorful.Color) {
	for _, r := range s {
		cv.set(x, y, r, c)
		x++
	}
}

func (cv *canvas) fill(x, y, w, h int, r rune, c colorful.Color) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			cv.set(i, j, r, c)
		}
	}
}

type border struct {
	h, v, tl, tr, bl, br rune
}

var (
	thinBorder  = border{'─', '│', '╭', '╮', '╰', '╯'}
	thickBorder = border{'━', '┃', '┏', '┓', '┗', '┛'}
	dashBorder  = border{'┄', '┆', '┌', '┐', '└', '┘'}
)

func (cv *canvas) box(x, y, w, h int, b border, c colorful.Color) {
	if w < 2 || h < 2 {
		return
	}
	cv.fill(x+1, y+1, w-2, h-2, ' ', c)
	for i := x + 1; i < x+w-1; i++ {
		cv.set(i, y, b.h, c)
		cv.set(i, y+h-1, b.h, c)
	}
	for j := y + 1; j < y+h-1; j++ {
		cv.set(x, j, b.v, c)
		cv.set(x+w-1, j, b.v, c)
	}
	cv.set(x, y, b.tl, c)
	cv.set(x+w-1, y, b.tr, c)
	cv.set(x, y+h-1, b.bl, c)
	cv.set(x+w-1, y+h-1, b.br, c)
}

func (cv *canvas) render(p colorProfile) string {
	var sb strings.Builder
	sb.Grow(cv.w * cv.h * 2)
	pn := pen{profile: p, last: noColor}
	for y := range cv.h {
		if y > 0 {
			pn.lift(&sb)
			sb.WriteByte('\n')
		}
		for x := range cv.w {
			cl := cv.cells[y*cv.w+x]
			if cl.r != ' ' {
				pn.ink(&sb, cl.c)
			}
			sb.WriteRune(cl.r)
		}
	}
	pn.lift(&sb)
	return sb.String()
}
