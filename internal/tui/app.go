// Package tui provides the interactive terminal client: a search input,
// the results card grid and the library pane.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bibliotech/internal/errors"
	"github.com/lepinkainen/bibliotech/internal/library"
	"github.com/lepinkainen/bibliotech/internal/results"
	"github.com/lepinkainen/bibliotech/internal/search"
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Library is the part of the library backend the terminal client uses.
type Library interface {
	Add(ctx context.Context, entry library.Entry) error
	List(ctx context.Context) ([]library.Book, error)
	Issue(ctx context.Context, id int64) error
	Return(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type focus int

const (
	focusInput focus = iota
	focusCards
	focusLibrary
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

type searchDoneMsg struct {
	outcome search.Outcome
}

type addDoneMsg struct {
	entry library.Entry
	err   error
}

type libraryActionMsg struct {
	action string
	title  string
	err    error
}

type libraryLoadedMsg struct {
	books []library.Book
	err   error
}

type model struct {
	ctx     context.Context
	flow    *search.Flow
	lib     Library
	input   textinput.Model
	spinner spinner.Model
	books   list.Model
	styles  cardStyles

	view   results.View
	cursor int
	focus  focus

	status     string
	statusKind statusKind
}

func newModel(ctx context.Context, flow *search.Flow, lib Library) *model {
	input := textinput.New()
	input.Placeholder = "Search Google Books..."
	input.CharLimit = 200
	input.Width = 48
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return &model{
		ctx:     ctx,
		flow:    flow,
		lib:     lib,
		input:   input,
		spinner: spin,
		books:   newLibraryList(),
		styles:  newCardStyles(),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadLibrary())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchDoneMsg:
		if !m.flow.IsLatest(msg.outcome) {
			return m, nil
		}
		m.view = msg.outcome.View
		m.cursor = 0
		if m.focus == focusCards && len(m.view.Cards) == 0 {
			m.setFocus(focusInput)
		}
		return m, nil

	case addDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(statusInfo, fmt.Sprintf("Added %q to the library.", msg.entry.Title))
		return m, m.loadLibrary()

	case libraryActionMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(statusInfo, fmt.Sprintf("%s %q.", msg.action, msg.title))
		return m, m.loadLibrary()

	case libraryLoadedMsg:
		if msg.err != nil {
			m.setStatus(statusError, "Could not load the library: "+msg.err.Error())
			return m, nil
		}
		return m, m.books.SetItems(bookItems(msg.books))

	case spinner.TickMsg:
		if !m.view.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		m.books.SetSize(width, defaultListHeight)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycleFocus()
		return m, nil
	case "esc":
		m.setFocus(focusInput)
		return m, nil
	}

	switch m.focus {
	case focusCards:
		return m.handleCardKey(msg)
	case focusLibrary:
		return m.handleLibraryKey(msg)
	}

	if msg.String() == "enter" {
		return m, m.startSearch()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.view.Cards) - 1
	switch msg.String() {
	case "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "right", "l":
		m.cursor = min(m.cursor+1, last)
	case "up", "k":
		if m.cursor-cardsPerRow >= 0 {
			m.cursor -= cardsPerRow
		}
	case "down", "j":
		if m.cursor+cardsPerRow <= last {
			m.cursor += cardsPerRow
		}
	case "enter", "a":
		if m.cursor >= 0 && m.cursor <= last {
			return m, m.addBook(m.view.Cards[m.cursor].Entry())
		}
	case "/":
		m.setFocus(focusInput)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, ok := m.books.SelectedItem().(bookItem)
	switch msg.String() {
	case "i":
		if ok {
			return m, m.libraryAction("Issued", selected.book, m.lib.Issue)
		}
	case "r":
		if ok {
			return m, m.libraryAction("Returned", selected.book, m.lib.Return)
		}
	case "d":
		if ok {
			return m, m.libraryAction("Deleted", selected.book, m.lib.Delete)
		}
	case "/":
		m.setFocus(focusInput)
	case "q":
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.books, cmd = m.books.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startSearch validates the input and, when it is usable, shows the
// progress indicator and issues the catalog request.
func (m *model) startSearch() tea.Cmd {
	req, err := m.flow.Begin(m.input.Value())
	if err != nil {
		m.setStatus(statusWarning, results.EmptyQueryWarning)
		return nil
	}

	m.status = ""
	m.view = results.InProgress()
	m.cursor = 0

	flow, ctx := m.flow, m.ctx
	run := func() tea.Msg {
		return searchDoneMsg{outcome: flow.Run(ctx, req)}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *model) addBook(entry library.Entry) tea.Cmd {
	lib, ctx := m.lib, m.ctx
	m.setStatus(statusInfo, fmt.Sprintf("Adding %q...", entry.Title))
	return func() tea.Msg {
		return addDoneMsg{entry: entry, err: lib.Add(ctx, entry)}
	}
}

func (m *model) libraryAction(action string, book library.Book, fn func(context.Context, int64) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return libraryActionMsg{action: action, title: book.Title, err: fn(ctx, book.ID)}
	}
}

func (m *model) loadLibrary() tea.Cmd {
	lib, ctx := m.lib, m.ctx
	return func() tea.Msg {
		books, err := lib.List(ctx)
		return libraryLoadedMsg{books: books, err: err}
	}
}

// setError shows a rejected write with the server's own message and any
// other failure as unreachable.
func (m *model) setError(err error) {
	if rejected, ok := errors.AsRejectedError(err); ok {
		m.setStatus(statusError, rejected.Error())
		return
	}
	m.setStatus(statusError, library.UnreachableMessage)
}

func (m *model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *model) cycleFocus() {
	next := m.focus
	for range 3 {
		next = (next + 1) % 3
		if next == focusCards && len(m.view.Cards) == 0 {
			continue
		}
		if next == focusLibrary && len(m.books.Items()) == 0 {
			continue
		}
		break
	}
	m.setFocus(next)
}

func (m *model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *model) View() string {
	header := headerStyle.Render("Bibliotech")

	selected := -1
	if m.focus == focusCards {
		selected = m.cursor
	}
	grid := renderResults(m.view, m.styles, selected, m.spinner.View())

	libraryHeader := sectionStyle.Render(fmt.Sprintf("Library (%d)", len(m.books.Items())))
	help := helpStyle.Render(m.helpText())

	parts := []string{header, m.input.View()}
	if m.status != "" {
		parts = append(parts, m.statusStyle().Render(m.status))
	}
	if grid != "" {
		parts = append(parts, grid)
	}
	parts = append(parts, libraryHeader, m.books.View(), help)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) helpText() string {
	switch m.focus {
	case focusCards:
		return "Arrows move | Enter/a add | / search | Tab switch | q quit"
	case focusLibrary:
		return "Up/Down navigate | i issue | r return | d delete | / search | Tab switch | q quit"
	default:
		return "Enter search | Tab switch | Ctrl+C quit"
	}
}

func (m *model) statusStyle() lipgloss.Style {
	switch m.statusKind {
	case statusWarning:
		return warningStyle
	case statusError:
		return errorStyle
	default:
		return infoStyle
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")).
			MarginTop(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("178"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("161"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Run starts the interactive client and blocks until the user quits.
func Run(ctx context.Context, flow *search.Flow, lib Library) error {
	m := newModel(ctx, flow, lib)
	finalModel, err := runProgram(m)
	if err != nil {
		return err
	}
	if _, ok := finalModel.(*model); !ok {
		return fmt.Errorf("unexpected program result")
	}
	return nil
}
