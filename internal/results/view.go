// Package results turns catalog search outcomes into a presentation-neutral
// description of the results area. The TUI and the web page only render it.
package results

import (
	"github.com/lepinkainen/bibliotech/internal/catalog"
	"github.com/lepinkainen/bibliotech/internal/library"
)

// User-facing texts for the non-card states.
const (
	EmptyQueryWarning = "Please enter a book name!"
	LoadingMessage    = "Searching..."
	EmptyMessage      = "No books found."
	ErrorMessage      = "Error fetching books."
)

// State is what the results area currently shows.
type State int

const (
	// Hidden means no search has been issued yet.
	Hidden State = iota
	// Loading shows an indeterminate progress indicator.
	Loading
	// Empty shows the "no results" placeholder.
	Empty
	// Failed shows the error placeholder.
	Failed
	// Ready shows one card per result.
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "hidden"
	}
}

// Card is one rendered search result. Its add trigger carries the card's
// own fields as data, so no argument string is ever built from them.
type Card struct {
	CoverURL string `json:"cover_url"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// Entry returns the library entry the card's add trigger submits.
func (c Card) Entry() library.Entry {
	return library.Entry{Title: c.Title, Author: c.Author, Category: c.Category}
}

// View describes the whole results area.
type View struct {
	State   State
	Message string
	Cards   []Card
}

// Visible reports whether the results area should be shown at all.
func (v View) Visible() bool { return v.State != Hidden }

// IsLoading reports whether the progress indicator is shown.
func (v View) IsLoading() bool { return v.State == Loading }

// IsEmpty reports whether the "no results" placeholder is shown.
func (v View) IsEmpty() bool { return v.State == Empty }

// IsFailed reports whether the error placeholder is shown.
func (v View) IsFailed() bool { return v.State == Failed }

// InProgress returns the view shown while a search is in flight.
func InProgress() View {
	return View{State: Loading, Message: LoadingMessage}
}

// Failure returns the view shown when the catalog request or its decoding failed.
func Failure() View {
	return View{State: Failed, Message: ErrorMessage}
}

// FromResults builds the view for a completed search. Cards keep the
// catalog's order; an empty slice yields the single placeholder.
func FromResults(items []catalog.SearchResult) View {
	if len(items) == 0 {
		return View{State: Empty, Message: EmptyMessage}
	}

	cards := make([]Card, len(items))
	for i, item := range items {
		cards[i] = Card{
			CoverURL: item.CoverURL,
			Title:    item.Title,
			Author:   item.PrimaryAuthor(),
			Category: item.Category(),
		}
	}
	return View{State: Ready, Cards: cards}
}
