package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bibliotech/internal/catalog"
	liberrors "github.com/lepinkainen/bibliotech/internal/errors"
	"github.com/lepinkainen/bibliotech/internal/library"
	"github.com/lepinkainen/bibliotech/internal/results"
	"github.com/lepinkainen/bibliotech/internal/search"
)

type fakeCatalog struct {
	mu      sync.Mutex
	queries []string
	items   map[string][]catalog.SearchResult
}

func (f *fakeCatalog) Search(_ context.Context, query string, _ int) ([]catalog.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.items[query], nil
}

type fakeLibrary struct {
	addErr  error
	added   []library.Entry
	books   []library.Book
	lists   int
	issued  []int64
	deleted []int64
}

func (f *fakeLibrary) Add(_ context.Context, entry library.Entry) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, entry)
	f.books = append(f.books, library.Book{ID: int64(len(f.books) + 1), Title: entry.Title, Author: entry.Author, Category: entry.Category, Status: library.StatusAvailable})
	return nil
}

func (f *fakeLibrary) List(context.Context) ([]library.Book, error) {
	f.lists++
	return f.books, nil
}

func (f *fakeLibrary) Issue(_ context.Context, id int64) error {
	f.issued = append(f.issued, id)
	return nil
}

func (f *fakeLibrary) Return(context.Context, int64) error { return nil }

func (f *fakeLibrary) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func searchDone(t *testing.T, msgs []tea.Msg) searchDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(searchDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no search result among %d messages", len(msgs))
	return searchDoneMsg{}
}

func newTestModel(books *fakeCatalog, lib *fakeLibrary) *model {
	if books == nil {
		books = &fakeCatalog{}
	}
	if lib == nil {
		lib = &fakeLibrary{}
	}
	return newModel(context.Background(), search.NewFlow(books, 4), lib)
}

func typeQuery(m *model, query string) tea.Cmd {
	m.input.SetValue(query)
	_, cmd := m.Update(enterKey)
	return cmd
}

func TestEnterWithBlankInputWarns(t *testing.T) {
	books := &fakeCatalog{}
	m := newTestModel(books, nil)

	cmd := typeQuery(m, "   ")

	assert.Nil(t, cmd)
	assert.Equal(t, results.EmptyQueryWarning, m.status)
	assert.Equal(t, statusWarning, m.statusKind)
	assert.Equal(t, results.Hidden, m.view.State)
	assert.Empty(t, books.queries)
}

func TestSearchShowsSpinnerThenCards(t *testing.T) {
	books := &fakeCatalog{items: map[string][]catalog.SearchResult{
		"dune": {
			{Title: "Dune", Authors: []string{"Frank Herbert"}, Categories: []string{"Fiction"}},
			{Title: "Dune Messiah", Authors: []string{"Frank Herbert"}},
		},
	}}
	m := newTestModel(books, nil)

	cmd := typeQuery(m, "dune")
	require.NotNil(t, cmd)
	assert.True(t, m.view.IsLoading())
	assert.Contains(t, m.View(), results.LoadingMessage)

	m.Update(searchDone(t, collect(cmd)))

	require.Equal(t, results.Ready, m.view.State)
	require.Len(t, m.view.Cards, 2)
	assert.Equal(t, "Dune Messiah", m.view.Cards[1].Title)
	assert.Equal(t, catalog.GeneralCategory, m.view.Cards[1].Category)
	assert.Contains(t, m.View(), "Dune Messiah")
}

func TestStaleSearchIsDiscarded(t *testing.T) {
	books := &fakeCatalog{items: map[string][]catalog.SearchResult{
		"first":  {{Title: "First Book"}},
		"second": {{Title: "Second Book"}},
	}}
	m := newTestModel(books, nil)

	first := typeQuery(m, "first")
	second := typeQuery(m, "second")

	m.Update(searchDone(t, collect(second)))
	m.Update(searchDone(t, collect(first)))

	require.Len(t, m.view.Cards, 1)
	assert.Equal(t, "Second Book", m.view.Cards[0].Title)
}

func TestNoResultsShowsPlaceholder(t *testing.T) {
	m := newTestModel(nil, nil)

	m.Update(searchDone(t, collect(typeQuery(m, "zzz"))))

	assert.True(t, m.view.IsEmpty())
	assert.Contains(t, m.View(), results.EmptyMessage)
}

func TestAddFromCardReloadsLibrary(t *testing.T) {
	books := &fakeCatalog{items: map[string][]catalog.SearchResult{
		"guide": {
			{Title: "Other"},
			{Title: "O'Brien's Guide", Authors: []string{"Jane Doe"}, Categories: []string{"Fiction"}},
		},
	}}
	lib := &fakeLibrary{}
	m := newTestModel(books, lib)

	m.Update(searchDone(t, collect(typeQuery(m, "guide"))))

	m.Update(tabKey)
	require.Equal(t, focusCards, m.focus)
	m.Update(runeKey("l"))
	_, cmd := m.Update(runeKey("a"))
	require.NotNil(t, cmd)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	_, reload := m.Update(msgs[0])
	require.NotNil(t, reload)

	require.Len(t, lib.added, 1)
	assert.Equal(t, library.Entry{Title: "O'Brien's Guide", Author: "Jane Doe", Category: "Fiction"}, lib.added[0])
	assert.Equal(t, statusInfo, m.statusKind)

	for _, msg := range collect(reload) {
		m.Update(msg)
	}
	assert.Equal(t, 1, lib.lists)
	assert.Len(t, m.books.Items(), 1)
}

func TestAddFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "rejected", err: liberrors.NewRejectedError("error", "Title is too long!"), want: "Title is too long!"},
		{name: "unreachable", err: errors.New("dial tcp: connection refused"), want: library.UnreachableMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(nil, &fakeLibrary{addErr: tt.err})

			_, cmd := m.Update(addDoneMsg{entry: library.Entry{Title: "x"}, err: tt.err})

			assert.Nil(t, cmd)
			assert.Equal(t, statusError, m.statusKind)
			assert.Equal(t, tt.want, m.status)
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestLibraryPaneActions(t *testing.T) {
	lib := &fakeLibrary{books: []library.Book{
		{ID: 4, Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Status: library.StatusAvailable},
	}}
	m := newTestModel(nil, lib)

	for _, msg := range collect(m.loadLibrary()) {
		m.Update(msg)
	}
	require.Len(t, m.books.Items(), 1)

	m.Update(tabKey)
	require.Equal(t, focusLibrary, m.focus)

	_, cmd := m.Update(runeKey("i"))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	_, reload := m.Update(msgs[0])

	assert.Equal(t, []int64{4}, lib.issued)
	assert.Equal(t, `Issued "Dune".`, m.status)
	assert.NotNil(t, reload)
}

func TestTypingQGoesToInput(t *testing.T) {
	m := newTestModel(nil, nil)

	_, cmd := m.Update(runeKey("q"))

	assert.Equal(t, "q", m.input.Value())
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		assert.False(t, quit)
	}
}

func TestRenderCards(t *testing.T) {
	view := results.FromResults([]catalog.SearchResult{
		{Title: "O'Brien's Guide", Authors: []string{"Jane Doe"}, Categories: []string{"Fiction"}, CoverURL: "http://x/c.jpg"},
	})

	out := RenderCards(view)
	assert.Contains(t, out, "O'Brien's Guide")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Fiction")
	assert.Contains(t, out, "[+ Add]")

	assert.Equal(t, results.ErrorMessage, strings.TrimSpace(RenderCards(results.Failure())))
	assert.Empty(t, RenderCards(results.View{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long title", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "Émile ...", truncate("Émile Zola's works", 9))
}

func TestRunUsesProgram(t *testing.T) {
	orig := runProgram
	t.Cleanup(func() { runProgram = orig })

	var started *model
	runProgram = func(m tea.Model) (tea.Model, error) {
		started = m.(*model)
		return m, nil
	}

	require.NoError(t, Run(context.Background(), search.NewFlow(&fakeCatalog{}, 4), &fakeLibrary{}))
	require.NotNil(t, started)
	assert.Equal(t, focusInput, started.focus)
}
