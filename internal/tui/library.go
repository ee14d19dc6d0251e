package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bibliotech/internal/library"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 8
)

type bookItem struct {
	book library.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }

type bookStyles struct {
	normal    lipgloss.Style
	selected  lipgloss.Style
	available lipgloss.Style
	borrowed  lipgloss.Style
}

type bookDelegate struct {
	styles bookStyles
}

func newBookDelegate() bookDelegate {
	return bookDelegate{styles: bookStyles{
		normal: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("252")),
		selected: lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("230")),
		available: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		borrowed:  lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
	}}
}

func (d bookDelegate) Height() int                         { return 1 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	it, ok := item.(bookItem)
	if !ok {
		return
	}

	status := d.styles.available
	if it.book.Status != library.StatusAvailable {
		status = d.styles.borrowed
	}
	line := fmt.Sprintf("%s by %s (%s) %s",
		truncate(it.book.Title, 32),
		truncate(it.book.Author, 20),
		it.book.Category,
		status.Render(it.book.Status),
	)

	style := d.styles.normal
	if idx == m.Index() {
		style = d.styles.selected
	}
	_, _ = fmt.Fprint(w, style.Render(line))
}

func newLibraryList() list.Model {
	l := list.New(nil, newBookDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("244"))
	return l
}

func bookItems(books []library.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}
