// SPDX-License-Identifier: MPL-2.0

package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vfsh/vfsh/internal/config"
)

const (
	colorError  = lipgloss.Color("#EF4444")
	colorPrompt = lipgloss.Color("#10B981")
	colorPath   = lipgloss.Color("#3B82F6")
)

// Styles colors console output. Rendering through a renderer bound to a
// non-terminal writer leaves text unchanged.
type Styles struct {
	Error  lipgloss.Style
	Prompt lipgloss.Style
	Path   lipgloss.Style
}

// NewStyles builds styles for w honoring the configured color scheme.
func NewStyles(w io.Writer, scheme config.ColorScheme) Styles {
	r := lipgloss.NewRenderer(w)
	return NewStylesWithRenderer(r, scheme)
}

// NewStylesWithRenderer builds styles on an existing renderer, such as one
// bound to an SSH session.
func NewStylesWithRenderer(r *lipgloss.Renderer, scheme config.ColorScheme) Styles {
	switch scheme {
	case config.ColorSchemeDark:
		r.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		r.SetHasDarkBackground(false)
	}
	return Styles{
		Error:  r.NewStyle().Bold(true).Foreground(colorError),
		Prompt: r.NewStyle().Foreground(colorPrompt),
		Path:   r.NewStyle().Bold(true).Foreground(colorPath),
	}
}
