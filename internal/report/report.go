// Package report renders the library catalogue as a printable PDF table.
package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/lepinkainen/bibliotech/internal/library"
)

// Filename is the suggested download name for the catalogue report.
const Filename = "Library_Catalog.pdf"

const (
	heading = "BiblioTech Library Report"

	titleLimit  = 35
	authorLimit = 20
	rowHeight   = 10
)

var columns = []struct {
	name  string
	width float64
}{
	{"Title", 80},
	{"Author", 50},
	{"Category", 30},
	{"Status", 30},
}

// Row is one table line of the report.
type Row struct {
	Title    string
	Author   string
	Category string
	Status   string
}

func (r Row) cells() []string {
	return []string{r.Title, r.Author, r.Category, r.Status}
}

// Rows converts books into report rows, shortening long titles and authors.
func Rows(books []library.Book) []Row {
	rows := make([]Row, 0, len(books))
	for _, b := range books {
		rows = append(rows, Row{
			Title:    shorten(b.Title, titleLimit),
			Author:   shorten(b.Author, authorLimit),
			Category: b.Category,
			Status:   b.Status,
		})
	}
	return rows
}

func shorten(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// Write renders the catalogue report for books to w.
func Write(w io.Writer, books []library.Book) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, rowHeight, heading, "", 1, "C", false, 0, "")
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(200, 220, 255)
	for i, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.name, "1", lineBreak(i), "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 10)
	for _, row := range Rows(books) {
		for i, cell := range row.cells() {
			pdf.CellFormat(columns[i].width, rowHeight, tr(cell), "1", lineBreak(i), "", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// lineBreak ends the line after the last column.
func lineBreak(col int) int {
	if col == len(columns)-1 {
		return 1
	}
	return 0
}
