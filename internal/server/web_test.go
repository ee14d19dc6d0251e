package server

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bibliotech/internal/catalog"
	"github.com/lepinkainen/bibliotech/internal/datastore"
	"github.com/lepinkainen/bibliotech/internal/library"
	"github.com/lepinkainen/bibliotech/internal/results"
	"github.com/lepinkainen/bibliotech/internal/search"
	"github.com/lepinkainen/bibliotech/internal/testutil"
)

// gatedCatalog answers each query with one book named after it. Queries
// listed in gates wait until their channel is closed.
type gatedCatalog struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	done  map[string]bool
}

func (c *gatedCatalog) Search(ctx context.Context, query string, _ int) ([]catalog.SearchResult, error) {
	c.mu.Lock()
	gate := c.gates[query]
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	c.done[query] = true
	c.mu.Unlock()

	return []catalog.SearchResult{{
		Title:      strings.ToUpper(query[:1]) + query[1:] + " Book",
		Authors:    []string{"Test Author"},
		Categories: []string{"Fiction"},
	}}, nil
}

func (c *gatedCatalog) finished(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done[query]
}

func findBrowser() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// newBrowserPage serves the app and returns a browser context pointed at it.
func newBrowserPage(t *testing.T, books *gatedCatalog) (context.Context, *datastore.SQLiteStore) {
	t.Helper()

	if testing.Short() {
		t.Skip("browser tests are skipped in short mode")
	}
	browser := findBrowser()
	if browser == "" {
		t.Skip("no Chrome or Chromium binary found")
	}

	store, err := datastore.Open(testutil.NewTestEnv(t).Path("library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := testutil.NewIPv4Server(t, New(store, search.NewFlow(books, 4), nil, Options{}))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(),
		chromedp.ExecPath(browser),
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.NoSandbox,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
	)
	t.Cleanup(cancelAlloc)

	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	t.Cleanup(cancelCtx)

	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	t.Cleanup(cancelTimeout)

	require.NoError(t, chromedp.Run(ctx,
		chromedp.Navigate(srv.URL+"/"),
		chromedp.WaitVisible("#searchInput", chromedp.ByQuery),
		captureAlerts(),
	))
	return ctx, store
}

func newGatedCatalog(gated ...string) *gatedCatalog {
	c := &gatedCatalog{gates: map[string]chan struct{}{}, done: map[string]bool{}}
	for _, q := range gated {
		c.gates[q] = make(chan struct{})
	}
	return c
}

// captureAlerts records alert() messages instead of opening dialogs.
func captureAlerts() chromedp.Action {
	return chromedp.Evaluate(`window.alerts = []; window.alert = (msg) => { window.alerts.push(String(msg)); };`, nil)
}

func waitForAlert(msg *string) chromedp.Action {
	return chromedp.Poll(`window.alerts.length > 0 ? window.alerts[0] : null`, msg, chromedp.WithPollingTimeout(10*time.Second))
}

func submitSearch(query string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.SetValue("#searchInput", "", chromedp.ByQuery),
		chromedp.SendKeys("#searchInput", query+kb.Enter, chromedp.ByQuery),
	}
}

func TestBrowserBlankQueryAlerts(t *testing.T) {
	ctx, _ := newBrowserPage(t, newGatedCatalog())

	var msg string
	require.NoError(t, chromedp.Run(ctx,
		submitSearch("   "),
		waitForAlert(&msg),
	))
	assert.Equal(t, results.EmptyQueryWarning, msg)

	var hidden bool
	require.NoError(t, chromedp.Run(ctx,
		chromedp.Evaluate(`document.getElementById("resultsArea").classList.contains("d-none")`, &hidden),
	))
	assert.True(t, hidden)
}

func TestBrowserStaleSearchIsDiscarded(t *testing.T) {
	books := newGatedCatalog("slow")
	ctx, _ := newBrowserPage(t, books)

	var grid string
	var fastShown bool
	require.NoError(t, chromedp.Run(ctx,
		submitSearch("slow"),
		submitSearch("fast"),
		chromedp.Poll(`document.getElementById("resultsGrid").textContent.includes("Fast Book")`, &fastShown,
			chromedp.WithPollingTimeout(10*time.Second)),
	))

	close(books.gates["slow"])
	require.Eventually(t, func() bool { return books.finished("slow") }, 10*time.Second, 20*time.Millisecond)

	require.NoError(t, chromedp.Run(ctx,
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Text("#resultsGrid", &grid, chromedp.ByQuery),
	))
	assert.Contains(t, grid, "Fast Book")
	assert.NotContains(t, grid, "Slow Book")
}

func TestBrowserAddReloadsLibrary(t *testing.T) {
	ctx, store := newBrowserPage(t, newGatedCatalog())

	var reloaded bool
	require.NoError(t, chromedp.Run(ctx,
		chromedp.Evaluate(`window.beforeReload = true`, nil),
		submitSearch("dune"),
		chromedp.WaitVisible(".add-to-library", chromedp.ByQuery),
		chromedp.Click(".add-to-library", chromedp.ByQuery),
		chromedp.Poll(`window.beforeReload === undefined && document.querySelector("#libraryTable tbody").textContent.includes("Dune Book")`,
			&reloaded, chromedp.WithPollingTimeout(10*time.Second)),
	))
	assert.True(t, reloaded)

	books, err := store.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune Book", books[0].Title)
	assert.Equal(t, library.StatusAvailable, books[0].Status)
}

func TestBrowserRejectedAddShowsMessage(t *testing.T) {
	ctx, store := newBrowserPage(t, newGatedCatalog())

	var msg string
	require.NoError(t, chromedp.Run(ctx,
		chromedp.Evaluate(`void addToLibrary("  ", "Frank Herbert", "Fiction")`, nil),
		waitForAlert(&msg),
	))
	assert.Equal(t, "title is required", msg)

	books, err := store.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBrowserUnreachableAddAlerts(t *testing.T) {
	ctx, store := newBrowserPage(t, newGatedCatalog())

	var msg string
	require.NoError(t, chromedp.Run(ctx,
		submitSearch("dune"),
		chromedp.WaitVisible(".add-to-library", chromedp.ByQuery),
		chromedp.Evaluate(`
			const realFetch = window.fetch;
			window.fetch = (url, opts) => String(url).startsWith("/api/add")
				? Promise.reject(new TypeError("Failed to fetch"))
				: realFetch(url, opts);
		`, nil),
		chromedp.Click(".add-to-library", chromedp.ByQuery),
		waitForAlert(&msg),
	))
	assert.Equal(t, library.UnreachableMessage, msg)

	books, err := store.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}
