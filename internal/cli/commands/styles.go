package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles are the terminal styles shared by the summary printers.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Code    lipgloss.Style
}

// NewStyles returns the default palette for output written to w.
// Color is dropped when w is not a terminal or NO_COLOR is set.
func NewStyles(w io.Writer) *Styles {
	var opts []termenv.OutputOption
	if termenv.EnvNoColor() {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(w, opts...)

	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Label:   r.NewStyle().Width(20),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Code:    r.NewStyle().PaddingLeft(2),
	}
}
