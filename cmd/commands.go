package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bibliotech/internal/catalog"
	"github.com/lepinkainen/bibliotech/internal/config"
	"github.com/lepinkainen/bibliotech/internal/errors"
	"github.com/lepinkainen/bibliotech/internal/library"
	"github.com/lepinkainen/bibliotech/internal/ratelimit"
	"github.com/lepinkainen/bibliotech/internal/report"
	"github.com/lepinkainen/bibliotech/internal/results"
	"github.com/lepinkainen/bibliotech/internal/search"
	"github.com/lepinkainen/bibliotech/internal/tui"
)

var (
	out    io.Writer = os.Stdout
	runTUI           = tui.Run
)

// SearchCmd represents the search command
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms"`
	JSON  bool     `help:"Print the cards as JSON instead of the card grid"`
}

// AddCmd represents the add command
type AddCmd struct {
	Title    string `short:"t" help:"Book title" required:""`
	Author   string `short:"a" help:"Primary author" default:"Unknown"`
	Category string `short:"c" help:"Category" default:"General"`
}

// TUICmd represents the interactive terminal client
type TUICmd struct{}

// LibraryCmd represents the library command and its subcommands
type LibraryCmd struct {
	List   LibraryListCmd   `cmd:"" default:"withargs" help:"List the books in the library"`
	Issue  LibraryIssueCmd  `cmd:"" help:"Mark an available book as borrowed"`
	Return LibraryReturnCmd `cmd:"" help:"Mark a borrowed book as available"`
	Delete LibraryDeleteCmd `cmd:"" help:"Remove a book from the library"`
	Report LibraryReportCmd `cmd:"" help:"Write the library catalogue as a PDF report"`
}

// LibraryListCmd represents the library list command
type LibraryListCmd struct {
	Format string `short:"F" enum:"table,json,yaml" default:"table" help:"Output format (table, json, yaml)"`
}

// LibraryReportCmd represents the library report command
type LibraryReportCmd struct {
	Output string `short:"o" default:"Library_Catalog.pdf" type:"path" help:"Report file to write"`
}

// LibraryIssueCmd represents the library issue command
type LibraryIssueCmd struct {
	ID int64 `arg:"" help:"Book id"`
}

// LibraryReturnCmd represents the library return command
type LibraryReturnCmd struct {
	ID int64 `arg:"" help:"Book id"`
}

// LibraryDeleteCmd represents the library delete command
type LibraryDeleteCmd struct {
	ID int64 `arg:"" help:"Book id"`
}

func newCatalogClient() *catalog.Client {
	return catalog.NewClient(
		catalog.WithBaseURL(config.CatalogBaseURL),
		catalog.WithAPIKey(config.CatalogAPIKey),
		catalog.WithPlaceholderCover(config.PlaceholderCover),
		catalog.WithHTTPClient(&http.Client{Timeout: config.CatalogTimeout}),
		catalog.WithRateLimiter(ratelimit.New("google-books", config.CatalogRPS)),
	)
}

func newLibraryClient() *library.Client {
	return library.NewClient(config.LibraryURL)
}

func newSearchFlow() *search.Flow {
	return search.NewFlow(newCatalogClient(), config.MaxResults)
}

// Run methods for each command

func (s *SearchCmd) Run() error {
	outcome, err := newSearchFlow().Search(context.Background(), strings.Join(s.Query, " "))
	if err != nil {
		return err
	}
	if outcome.Err != nil {
		_, _ = fmt.Fprintln(out, tui.RenderCards(outcome.View))
		return outcome.Err
	}

	if s.JSON {
		cards := outcome.View.Cards
		if cards == nil {
			cards = []results.Card{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	_, err = fmt.Fprintln(out, tui.RenderCards(outcome.View))
	return err
}

func (a *AddCmd) Run() error {
	entry := library.Entry{Title: a.Title, Author: a.Author, Category: a.Category}
	if err := newLibraryClient().Add(context.Background(), entry); err != nil {
		return surfaceLibraryError(err)
	}
	_, err := fmt.Fprintf(out, "Added %q to the library.\n", entry.Title)
	return err
}

func (t *TUICmd) Run() error {
	logFile := tuiLogWriter(config.TUILogFile)
	defer func() { _ = logFile.Close() }()

	// The terminal belongs to the UI until it exits
	initLogging(logLevel, logFile)
	defer initLogging(logLevel, os.Stdout)

	return runTUI(context.Background(), newSearchFlow(), newLibraryClient())
}

func (l *LibraryListCmd) Run() error {
	books, err := newLibraryClient().List(context.Background())
	if err != nil {
		return err
	}
	return writeBooks(out, books, l.Format)
}

func (l *LibraryReportCmd) Run() error {
	books, err := newLibraryClient().List(context.Background())
	if err != nil {
		return err
	}

	f, err := os.Create(l.Output)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Write(f, books); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	_, err = fmt.Fprintf(out, "Wrote %d books to %s\n", len(books), l.Output)
	return err
}

func (l *LibraryIssueCmd) Run() error {
	return libraryAction("Issued", l.ID, newLibraryClient().Issue)
}

func (l *LibraryReturnCmd) Run() error {
	return libraryAction("Returned", l.ID, newLibraryClient().Return)
}

func (l *LibraryDeleteCmd) Run() error {
	return libraryAction("Deleted", l.ID, newLibraryClient().Delete)
}

func libraryAction(verb string, id int64, fn func(context.Context, int64) error) error {
	if err := fn(context.Background(), id); err != nil {
		return surfaceLibraryError(err)
	}
	_, err := fmt.Fprintf(out, "%s book %d.\n", verb, id)
	return err
}

// surfaceLibraryError keeps the backend's own message for rejected writes and
// reports everything else as an unreachable library.
func surfaceLibraryError(err error) error {
	if errors.IsRejectedError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", library.UnreachableMessage, err)
}

type libraryDocument struct {
	Books []library.Book `json:"books" yaml:"books"`
	Stats library.Stats  `json:"stats" yaml:"stats"`
}

func writeBooks(w io.Writer, books []library.Book, format string) error {
	if books == nil {
		books = []library.Book{}
	}
	doc := libraryDocument{Books: books, Stats: library.Summarize(books)}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tSTATUS")
	for _, b := range books {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Category, b.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d  Available: %d  Borrowed: %d\n", doc.Stats.Total, doc.Stats.Available, doc.Stats.Borrowed)
	return err
}
