package server

import (
	"bytes"
	_ "embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/lepinkainen/bibliotech/internal/library"
	"github.com/lepinkainen/bibliotech/internal/results"
	"github.com/lepinkainen/bibliotech/internal/search"
)

//go:embed web/index.html
var indexTemplate string

//go:embed web/app.js
var appScript []byte

var pageTemplates = template.Must(template.Must(results.Templates.Clone()).New("index").Parse(indexTemplate))

// indexData is the data passed to the page template.
type indexData struct {
	Books   []library.Book
	Stats   library.Stats
	Loading results.View
	Failure results.View
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", "error", err)
		http.Error(w, "could not load the library", http.StatusInternalServerError)
		return
	}

	data := indexData{
		Books:   books,
		Stats:   library.Summarize(books),
		Loading: results.InProgress(),
		Failure: results.Failure(),
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "index", data); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSearch renders the results grid for ?q= as an HTML fragment.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.flow.Search(r.Context(), r.URL.Query().Get("q"))
	if errors.Is(err, search.ErrEmptyQuery) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := results.RenderGrid(&buf, outcome.View); err != nil {
		s.logger.Error("Failed to render results", "query", outcome.Query, "error", err)
		http.Error(w, "could not render results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Results-State", outcome.View.State.String())
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(appScript)
}
