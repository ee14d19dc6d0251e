package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/bibliotech/internal/config"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the bibliotech application
type CLI struct {
	// Global flags
	LibraryURL string `name:"library-url" help:"Base URL of the library backend (overrides library.url)"`
	DBFile     string `name:"db-file" help:"Path to the SQLite library database used by serve (overrides datastore.dbfile)"`
	Debug      bool   `help:"Enable debug logging"`

	Search  SearchCmd  `cmd:"" help:"Search the book catalog"`
	Add     AddCmd     `cmd:"" help:"Add a book to the library"`
	TUI     TUICmd     `cmd:"" name:"tui" help:"Search and add books interactively"`
	Library LibraryCmd `cmd:"" help:"List and manage the books in the library"`
	Serve   ServeCmd   `cmd:"" help:"Run the library backend and search page"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo, os.Stdout)
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bibliotech"),
		kong.Description("Search Google Books and keep a personal library."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("catalog.apikey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("library.url", "BIBLIOTECH_LIBRARY_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := readConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	// Initialize global config
	config.InitConfig()
}

// readConfig loads config.yaml, writing one with the defaults when it is missing.
func readConfig() error {
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return err
	}

	slog.Info("Config file not found, writing default config file...")
	if err := viper.SafeWriteConfig(); err != nil {
		slog.Warn("Error writing config file", "error", err)
	}
	return nil
}

func updateGlobalConfig(cli *CLI) {
	if cli.Debug {
		initLogging(slog.LevelDebug, os.Stdout)
	}

	config.SetLibraryURL(cli.LibraryURL)
	config.SetDBFile(cli.DBFile)

	if cli.LibraryURL != "" {
		viper.Set("library.url", cli.LibraryURL)
	}
	if cli.DBFile != "" {
		viper.Set("datastore.dbfile", cli.DBFile)
	}
}
