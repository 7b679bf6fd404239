package theme

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	Teal   = lipgloss.Color("#2aa198")
	Amber  = lipgloss.Color("#e8be42")
	Muted  = lipgloss.Color("#93a1a1")
	Coral  = lipgloss.Color("#dc322f")
	Border = lipgloss.Color("#586e75")
)

// Styles are the terminal styles bound to one output.
type Styles struct {
	Banner  lipgloss.Style
	Title   lipgloss.Style
	Body    lipgloss.Style
	Hint    lipgloss.Style
	Heading lipgloss.Style
	Value   lipgloss.Style
	Warn    lipgloss.Style
}

// For builds styles whose color profile matches out. A nil out means stdout.
func For(out io.Writer) Styles {
	if out == nil {
		out = os.Stdout
	}
	renderer := lipgloss.NewRenderer(out)
	return Styles{
		Banner: renderer.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2),
		Title:   renderer.NewStyle().Foreground(Teal).Bold(true),
		Body:    renderer.NewStyle(),
		Hint:    renderer.NewStyle().Foreground(Muted),
		Heading: renderer.NewStyle().Foreground(Amber).Bold(true),
		Value:   renderer.NewStyle().Bold(true),
		Warn:    renderer.NewStyle().Foreground(Coral),
	}
}
