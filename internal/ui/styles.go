package ui

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/driftboard/internal/phi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	linkStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FF8C00"})

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}).
			Padding(1, 2)

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
)

var (
	starFar  = colorful.Color{R: 0.25, G: 0.28, B: 0.38}
	starNear = colorful.Color{R: 0.85, G: 0.88, B: 1}
	chrome   = colorful.Color{R: 0.6, G: 0.6, B: 0.6}
)

// panelHue spaces panel colors by the golden angle so neighbours never
// share a hue.
func panelHue(i int) colorful.Color {
	h := float64(i) * 360 / phi.Sq
	for h >= 360 {
		h -= 360
	}
	return colorful.Hsl(h, 0.55, 0.62)
}

func focusColor(c colorful.Color) colorful.Color {
	return c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.45).Clamped()
}
