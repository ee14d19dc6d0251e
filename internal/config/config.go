package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults shared by the CLI, the TUI and the reference server.
const (
	DefaultCatalogBaseURL   = "https://www.googleapis.com/books/v1"
	DefaultMaxResults       = 4
	DefaultPlaceholderCover = "https://via.placeholder.com/150"
	DefaultCatalogTimeout   = 10 * time.Second
	DefaultLibraryURL       = "http://localhost:5000"
	DefaultServerAddr       = ":5000"
	DefaultDBFile           = "./bibliotech.db"
	DefaultTUILogFile       = "./bibliotech.log"

	// maxCatalogResults is the upper bound Google Books accepts for maxResults
	maxCatalogResults = 40
)

// Global configuration variables
var (
	// CatalogBaseURL is the Google Books API root
	CatalogBaseURL string
	// CatalogAPIKey is the optional Google Books API key
	CatalogAPIKey string
	// MaxResults caps how many catalog results a search renders
	MaxResults int
	// PlaceholderCover is shown for results without a thumbnail
	PlaceholderCover string
	// CatalogTimeout bounds a single catalog request
	CatalogTimeout time.Duration
	// CatalogRPS throttles catalog requests; zero disables throttling
	CatalogRPS float64
	// LibraryURL is the base URL of the persistence backend
	LibraryURL string
	// ServerAddr is the listen address for the serve command
	ServerAddr string
	// CORSOrigins lists origins allowed to call the server's /api routes
	CORSOrigins []string
	// DBFile is the SQLite file used by the serve command
	DBFile string
	// TUILogFile receives logs while the terminal UI owns the screen
	TUILogFile string
)

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("catalog.baseurl", DefaultCatalogBaseURL)
	viper.SetDefault("catalog.maxresults", DefaultMaxResults)
	viper.SetDefault("catalog.placeholdercover", DefaultPlaceholderCover)
	viper.SetDefault("catalog.timeout", DefaultCatalogTimeout.String())
	viper.SetDefault("catalog.rps", 1)
	viper.SetDefault("library.url", DefaultLibraryURL)
	viper.SetDefault("server.addr", DefaultServerAddr)
	viper.SetDefault("server.corsorigins", []string{"*"})
	viper.SetDefault("datastore.dbfile", DefaultDBFile)
	viper.SetDefault("tui.logfile", DefaultTUILogFile)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	CatalogBaseURL = viper.GetString("catalog.baseurl")
	CatalogAPIKey = viper.GetString("catalog.apikey")
	MaxResults = clampResults(viper.GetInt("catalog.maxresults"))
	PlaceholderCover = viper.GetString("catalog.placeholdercover")
	CatalogRPS = viper.GetFloat64("catalog.rps")
	LibraryURL = viper.GetString("library.url")
	ServerAddr = viper.GetString("server.addr")
	CORSOrigins = viper.GetStringSlice("server.corsorigins")
	DBFile = viper.GetString("datastore.dbfile")
	TUILogFile = viper.GetString("tui.logfile")

	CatalogTimeout = viper.GetDuration("catalog.timeout")
	if CatalogTimeout <= 0 {
		CatalogTimeout = DefaultCatalogTimeout
	}
}

// SetLibraryURL overrides the persistence backend URL
func SetLibraryURL(url string) {
	if url != "" {
		LibraryURL = url
	}
}

// SetDBFile overrides the SQLite file used by the server
func SetDBFile(path string) {
	if path != "" {
		DBFile = path
	}
}

func clampResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > maxCatalogResults:
		return maxCatalogResults
	default:
		return n
	}
}
