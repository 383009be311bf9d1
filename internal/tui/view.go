package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/packreveal/internal/reveal"
)

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	phaseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	sectionStyle = lipgloss.NewStyle().PaddingLeft(1).BorderStyle(lipgloss.NormalBorder()).BorderLeft(true)
)

var phaseHints = map[string]string{
	"loading":       "Loading cards...",
	"pack":          "Press space to open the pack",
	"stacked":       "Press space to reveal the next card",
	"transitioning": "Fanning out your hand...",
	"revealed":      "Your hand. Press n for a new one",
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pack Reveal"))
	b.WriteString("  ")
	b.WriteString(phaseStyle.Render(a.frame.Phase))
	if a.frame.HandID != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  hand %.8s  gen %d", a.frame.HandID, a.frame.Generation)))
	}
	if a.cached {
		b.WriteString(mutedStyle.Render("  (cached catalog)"))
	}
	b.WriteString("\n\n")

	switch a.frame.Phase {
	case reveal.PhaseError.String():
		b.WriteString(errorStyle.Render(a.frame.Message))
		b.WriteString("\n")
	case reveal.PhaseLoading.String(), "":
		b.WriteString(phaseHints["loading"])
		b.WriteString("\n")
		if a.frame.Total > 0 {
			pct := float64(a.frame.Settled) / float64(a.frame.Total)
			b.WriteString(a.progress.ViewAs(pct))
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d assets", a.frame.Settled, a.frame.Total)))
			b.WriteString("\n")
		}
	default:
		b.WriteString(phaseHints[a.frame.Phase])
		b.WriteString("\n\n")
		b.WriteString(sectionStyle.Render(renderElements(a.frame.Elements)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func renderElements(elems []reveal.Element) string {
	if len(elems) == 0 {
		return mutedStyle.Render("nothing on the table")
	}
	lines := make([]string, 0, len(elems))
	for _, e := range elems {
		p := e.Pose
		marker := " "
		switch {
		case e.Dragging:
			marker = "✋"
		case e.Focused:
			marker = "▶"
		}
		line := fmt.Sprintf("%s %-22s %-8s pos(%6.2f %6.2f %6.2f) yaw %5.2f scale %4.2f alpha %4.2f",
			marker, e.Key, e.Layer,
			p.Position.X(), p.Position.Y(), p.Position.Z(),
			p.Rotation.Y(), p.Scale, p.Opacity)
		if e.Fallback {
			line += warnStyle.Render("  [fallback]")
		}
		switch {
		case e.Focused:
			line = focusStyle.Render(line)
		case p.Opacity < 0.75:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
