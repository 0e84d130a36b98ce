// Package ux styles terminal output for the dcgraph CLI.
package ux

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	// Query results are highlighted bold red, as the original tool did with
	// raw ANSI escapes.
	colorResult = lipgloss.Color("9")
	colorError  = lipgloss.Color("1")
	colorMuted  = lipgloss.Color("8")
)

// Palette renders result and diagnostic text. Styling is disabled when
// stdout is not a terminal or color is turned off in configuration, in which
// case every method returns its input unchanged.
type Palette struct {
	enabled bool
	result  lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
}

// NewPalette builds the palette, probing stdout for TTY-ness.
func NewPalette(noColor bool) *Palette {
	return &Palette{
		enabled: !noColor && isatty.IsTerminal(os.Stdout.Fd()),
		result:  lipgloss.NewStyle().Bold(true).Foreground(colorResult),
		err:     lipgloss.NewStyle().Foreground(colorError),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Result styles a query result block.
func (p *Palette) Result(s string) string {
	if !p.enabled {
		return s
	}
	return p.result.Render(s)
}

// Error styles an error message.
func (p *Palette) Error(s string) string {
	if !p.enabled {
		return s
	}
	return p.err.Render(s)
}

// Muted styles low-priority informational text.
func (p *Palette) Muted(s string) string {
	if !p.enabled {
		return s
	}
	return p.muted.Render(s)
}
