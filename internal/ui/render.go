package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"seam/internal/media"
)

var (
	baseColor   = lipgloss.Color("#1e1e2e")
	textColor   = lipgloss.Color("#cdd6f4")
	faintColor  = lipgloss.Color("#6c7086")
	accentColor = lipgloss.Color("#cba6f7")
	urlColor    = lipgloss.Color("#89b4fa")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(baseColor).Background(accentColor).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(faintColor).Width(8)
	valueStyle  = lipgloss.NewStyle().Foreground(textColor)
	urlStyle    = lipgloss.NewStyle().Foreground(urlColor)
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderNode formats a node for humans. Styling is applied only when styled is true.
func RenderNode(n *media.Node, styled bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s", n.Platform, n.RoomID)
	if styled {
		header = headerStyle.Render(header)
	}
	b.WriteString(header + "\n")

	for _, f := range []struct{ label, value string }{
		{"title", n.Title},
		{"anchor", n.Anchor},
		{"cover", n.Cover},
		{"avatar", n.Avatar},
	} {
		if f.value == "" {
			continue
		}
		if styled {
			fmt.Fprintf(&b, "%s%s\n", labelStyle.Render(f.label), valueStyle.Render(f.value))
		} else {
			fmt.Fprintf(&b, "%-8s%s\n", f.label, f.value)
		}
	}

	fmt.Fprintf(&b, "%d stream URL(s)\n", len(n.URLs))
	for i, u := range n.URLs {
		line := fmt.Sprintf("%2d  %s", i+1, u)
		if styled {
			line = urlStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
