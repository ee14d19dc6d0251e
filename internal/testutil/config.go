package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/bibliotech/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	CatalogBaseURL   string
	CatalogAPIKey    string
	MaxResults       int
	PlaceholderCover string
	CatalogTimeout   time.Duration
	CatalogRPS       float64
	LibraryURL       string
	DBFile           string
	TUILogFile       string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		CatalogBaseURL:   config.CatalogBaseURL,
		CatalogAPIKey:    config.CatalogAPIKey,
		MaxResults:       config.MaxResults,
		PlaceholderCover: config.PlaceholderCover,
		CatalogTimeout:   config.CatalogTimeout,
		CatalogRPS:       config.CatalogRPS,
		LibraryURL:       config.LibraryURL,
		DBFile:           config.DBFile,
		TUILogFile:       config.TUILogFile,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.CatalogBaseURL = state.CatalogBaseURL
	config.CatalogAPIKey = state.CatalogAPIKey
	config.MaxResults = state.MaxResults
	config.PlaceholderCover = state.PlaceholderCover
	config.CatalogTimeout = state.CatalogTimeout
	config.CatalogRPS = state.CatalogRPS
	config.LibraryURL = state.LibraryURL
	config.DBFile = state.DBFile
	config.TUILogFile = state.TUILogFile
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig resets the configuration to its defaults with catalog
// throttling disabled. The previous state is restored when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	ResetConfig(t)
	config.InitConfig()
	config.CatalogRPS = 0
}
