package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lepinkainen/bibliotech/internal/datastore"
	"github.com/lepinkainen/bibliotech/internal/library"
	"github.com/lepinkainen/bibliotech/internal/metrics"
	"github.com/lepinkainen/bibliotech/internal/report"
)

// maxBodyBytes bounds /api/add request bodies
const maxBodyBytes = 1 << 16

// addBookRequest is the /api/add body. Catalog titles have no length cap.
type addBookRequest struct {
	Title    string `json:"title" validate:"notblank"`
	Author   string `json:"author" validate:"notblank"`
	Category string `json:"category" validate:"notblank"`
}

func (r addBookRequest) entry() library.Entry {
	return library.Entry{Title: r.Title, Author: r.Author, Category: r.Category}
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		metrics.LibraryAddsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		failure(w, http.StatusBadRequest, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		metrics.LibraryAddsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		failure(w, http.StatusBadRequest, err.Error(), s.logger)
		return
	}

	entry := req.entry()
	book, err := s.store.AddBook(r.Context(), entry)
	if err != nil {
		s.logger.Error("Failed to add book", "title", entry.Title, "error", err)
		metrics.LibraryAddsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		failure(w, http.StatusInternalServerError, "Could not save the book", s.logger)
		return
	}

	metrics.LibraryAddsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.Info("Book added", "id", book.ID, "title", book.Title, "author", book.Author)
	success(w, "Book added successfully!", s.logger)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", "error", err)
		failure(w, http.StatusInternalServerError, "Could not load the library", s.logger)
		return
	}
	writeJSON(w, http.StatusOK, books, s.logger)
}

// handleReport sends the catalogue as a PDF attachment.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		s.logger.Error("Failed to list books", "error", err)
		failure(w, http.StatusInternalServerError, "Could not load the library", s.logger)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, books); err != nil {
		s.logger.Error("Failed to render report", "error", err)
		failure(w, http.StatusInternalServerError, "Could not build the report", s.logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("Failed to write report", "error", err)
	}
}

func (s *Server) handleIssueBook(w http.ResponseWriter, r *http.Request) {
	s.changeStatus(w, r, library.StatusAvailable, library.StatusBorrowed, "Book issued successfully.", "Book is not available")
}

func (s *Server) handleReturnBook(w http.ResponseWriter, r *http.Request) {
	s.changeStatus(w, r, library.StatusBorrowed, library.StatusAvailable, "Book successfully returned!", "Book is not borrowed")
}

// changeStatus moves a book from one availability state to another.
func (s *Server) changeStatus(w http.ResponseWriter, r *http.Request, from, to, message, conflict string) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}

	err := s.store.UpdateStatus(r.Context(), id, from, to)
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		failure(w, http.StatusNotFound, "Book not found", s.logger)
	case errors.Is(err, datastore.ErrStatusConflict):
		failure(w, http.StatusConflict, conflict, s.logger)
	case err != nil:
		s.logger.Error("Failed to update book status", "id", id, "error", err)
		failure(w, http.StatusInternalServerError, "Could not update the book", s.logger)
	default:
		s.logger.Info("Book status changed", "id", id, "status", to)
		success(w, message, s.logger)
	}
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteBook(r.Context(), id)
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		failure(w, http.StatusNotFound, "Book not found", s.logger)
	case err != nil:
		s.logger.Error("Failed to delete book", "id", id, "error", err)
		failure(w, http.StatusInternalServerError, "Could not delete the book", s.logger)
	default:
		s.logger.Info("Book deleted", "id", id)
		success(w, "Book successfully deleted!", s.logger)
	}
}

func (s *Server) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		failure(w, http.StatusBadRequest, "Invalid book id", s.logger)
		return 0, false
	}
	return id, true
}
