package datastore

import (
	"context"
	"errors"

	"github.com/lepinkainen/bibliotech/internal/library"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrStatusConflict is returned when a status change does not apply to the book's current status.
	ErrStatusConflict = errors.New("book status does not allow this change")
)

// BooksSchema defines the library table
const BooksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	category TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'Available',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at);
`

// Store defines the interface for library storage
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// CreateTable creates a new table with the given schema if it doesn't exist
	CreateTable(schema string) error

	// AddBook stores entry as an available book
	AddBook(ctx context.Context, entry library.Entry) (library.Book, error)

	// ListBooks returns all books, oldest first
	ListBooks(ctx context.Context) ([]library.Book, error)

	// UpdateStatus moves a book from one status to another
	UpdateStatus(ctx context.Context, id int64, from, to string) error

	// DeleteBook removes a book
	DeleteBook(ctx context.Context, id int64) error

	// Close closes the connection to the data store
	Close() error
}
