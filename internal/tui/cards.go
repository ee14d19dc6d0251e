package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bibliotech/internal/results"
)

const (
	cardsPerRow = 4
	cardWidth   = 28
)

type cardStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	title       lipgloss.Style
	author      lipgloss.Style
	category    lipgloss.Style
	cover       lipgloss.Style
	add         lipgloss.Style
	placeholder lipgloss.Style
	failure     lipgloss.Style
}

func newCardStyles() cardStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(cardWidth - 2).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return cardStyles{
		normal:   container,
		selected: selected,
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		author: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")),
		category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("252")).
			Padding(0, 1),
		cover: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Faint(true),
		add: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		failure: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("161")),
	}
}

// RenderCards renders a results view as a card grid without a selection.
func RenderCards(v results.View) string {
	return renderResults(v, newCardStyles(), -1, "")
}

// renderResults presents v. selected is the highlighted card index, or -1.
func renderResults(v results.View, styles cardStyles, selected int, spin string) string {
	switch v.State {
	case results.Hidden:
		return ""
	case results.Loading:
		if spin == "" {
			return v.Message
		}
		return spin + " " + v.Message
	case results.Empty:
		return styles.placeholder.Render(v.Message)
	case results.Failed:
		return styles.failure.Render(v.Message)
	}

	rows := make([]string, 0, (len(v.Cards)+cardsPerRow-1)/cardsPerRow)
	for start := 0; start < len(v.Cards); start += cardsPerRow {
		end := min(start+cardsPerRow, len(v.Cards))
		row := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, renderCard(v.Cards[i], styles, i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(c results.Card, styles cardStyles, selected bool) string {
	inner := cardWidth - 4
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render(truncate(c.Title, inner)),
		styles.author.Render(truncate(c.Author, inner)),
		styles.category.Render(truncate(c.Category, inner-2)),
		styles.cover.Render(truncate(c.CoverURL, inner)),
		styles.add.Render("[+ Add]"),
	)

	container := styles.normal
	if selected {
		container = styles.selected
	}
	return container.Render(content)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
