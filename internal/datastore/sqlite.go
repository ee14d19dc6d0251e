package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lepinkainen/bibliotech/internal/library"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface for local SQLite storage
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore instance
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Open connects to dbPath and makes sure the books table exists.
func Open(dbPath string) (*SQLiteStore, error) {
	store := NewSQLiteStore(dbPath)
	if err := store.Connect(); err != nil {
		return nil, err
	}
	if err := store.CreateTable(BooksSchema); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Connect opens a connection to the SQLite database
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer connection
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

// CreateTable creates a new table with the given schema if it doesn't exist
func (s *SQLiteStore) CreateTable(schema string) error {
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// AddBook inserts entry with status Available
func (s *SQLiteStore) AddBook(ctx context.Context, entry library.Entry) (library.Book, error) {
	book := library.Book{
		Title:    entry.Title,
		Author:   entry.Author,
		Category: entry.Category,
		Status:   library.StatusAvailable,
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, author, category, status) VALUES (?, ?, ?, ?)`,
		book.Title, book.Author, book.Category, book.Status,
	)
	if err != nil {
		return library.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}

	book.ID, err = res.LastInsertId()
	if err != nil {
		return library.Book{}, fmt.Errorf("failed to get inserted id: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT created_at FROM books WHERE id = ?`, book.ID).Scan(&book.CreatedAt)
	if err != nil {
		return library.Book{}, fmt.Errorf("failed to read inserted book: %w", err)
	}

	return book, nil
}

// ListBooks returns every book ordered by insertion
func (s *SQLiteStore) ListBooks(ctx context.Context) ([]library.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, category, status, created_at FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	books := []library.Book{}
	for rows.Next() {
		var b library.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	return books, nil
}

// UpdateStatus changes a book's status from `from` to `to`.
// It returns ErrNotFound for unknown ids and ErrStatusConflict when the
// book is not currently in status `from`.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update book %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}

// DeleteBook removes the book with the given id
func (s *SQLiteStore) DeleteBook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up book %d: %w", id, err)
	}
	return true, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
