package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bibliotech/internal/library"
)

func TestRowsOnePerBook(t *testing.T) {
	books := []library.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Status: library.StatusAvailable},
		{ID: 2, Title: "Hyperion", Author: "Dan Simmons", Category: "Fiction", Status: library.StatusBorrowed},
		{ID: 3, Title: "SICP", Author: "Abelson", Category: "Computers", Status: library.StatusAvailable},
	}

	rows := Rows(books)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{Title: "Hyperion", Author: "Dan Simmons", Category: "Fiction", Status: library.StatusBorrowed}, rows[1])

	assert.Empty(t, Rows(nil))
}

func TestRowsShortenLongValues(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		wantTitle  string
		wantAuthor string
	}{
		{
			name:       "at limit",
			title:      strings.Repeat("t", 35),
			author:     strings.Repeat("a", 20),
			wantTitle:  strings.Repeat("t", 35),
			wantAuthor: strings.Repeat("a", 20),
		},
		{
			name:       "over limit",
			title:      "The Hitchhiker's Guide to the Galaxy: The Trilogy",
			author:     "Douglas Noel Adams and Friends",
			wantTitle:  "The Hitchhiker's Guide to the Galax...",
			wantAuthor: "Douglas Noel Adams a...",
		},
		{
			name:       "multibyte runes",
			title:      strings.Repeat("é", 40),
			author:     strings.Repeat("ø", 21),
			wantTitle:  strings.Repeat("é", 35) + "...",
			wantAuthor: strings.Repeat("ø", 20) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Rows([]library.Book{{Title: tt.title, Author: tt.author, Category: "General", Status: library.StatusAvailable}})
			require.Len(t, rows, 1)
			assert.Equal(t, tt.wantTitle, rows[0].Title)
			assert.Equal(t, tt.wantAuthor, rows[0].Author)
			assert.Equal(t, "General", rows[0].Category)
		})
	}
}

func TestWriteProducesPDF(t *testing.T) {
	books := make([]library.Book, 0, 60)
	for range 60 {
		books = append(books, library.Book{Title: "Café Society", Author: "Unknown", Category: "General", Status: library.StatusAvailable})
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, books))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(out[len(out)-16:])), "%%EOF")
}

func TestWriteEmptyLibrary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
