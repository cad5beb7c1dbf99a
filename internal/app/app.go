// Package app wires the application services from configuration: HTTP
// clients, the card store, the resolver, and the deck generator.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/EDH-Companion/internal/cards/edhrec"
	"github.com/ramonehamilton/EDH-Companion/internal/cards/resolver"
	"github.com/ramonehamilton/EDH-Companion/internal/cards/scryfall"
	"github.com/ramonehamilton/EDH-Companion/internal/config"
	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
	"github.com/ramonehamilton/EDH-Companion/internal/metrics"
	"github.com/ramonehamilton/EDH-Companion/internal/storage"
)

// App holds the wired application services.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Resolver  *resolver.Service
	Source    *edhrec.Source
	Generator *deckgen.Generator
	Metrics   *metrics.PipelineMetrics

	logLevel *slog.LevelVar
	db       *storage.DB
}

// New builds the application services from the given configuration.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := new(slog.LevelVar)
	if cfg.App.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	scryfallTimeout, _ := cfg.GetScryfallTimeout()
	edhrecTimeout, _ := cfg.GetEDHRECTimeout()
	cacheTTL, _ := cfg.GetCacheTTL()
	cardTTL, _ := cfg.GetCardTTL()

	scryfallClient := scryfall.NewClient(scryfall.ClientOptions{
		BaseURL:    cfg.Scryfall.BaseURL,
		HTTPClient: &http.Client{Timeout: scryfallTimeout},
	})

	edhrecClient := edhrec.NewClient(edhrec.ClientOptions{
		BaseURL:    cfg.EDHREC.BaseURL,
		HTTPClient: &http.Client{Timeout: edhrecTimeout},
	})

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Source:   edhrec.NewSource(edhrecClient, cacheTTL),
		Metrics:  metrics.NewPipelineMetrics(),
		logLevel: logLevel,
	}

	var store *storage.CardStore
	if cfg.Storage.Enabled {
		db, err := openCardDB(cfg)
		if err != nil {
			return nil, err
		}
		app.db = db
		store = storage.NewCardStore(db)
	}

	app.Resolver = resolver.NewService(resolver.Options{
		Client:    scryfallClient,
		Store:     store,
		CacheSize: cfg.Cache.MaxSize,
		CacheTTL:  cacheTTL,
		StoreTTL:  cardTTL,
		Logger:    logger,
		Metrics:   app.Metrics,
	})

	app.Generator = deckgen.NewGenerator(app.Resolver, app.Source, logger)

	return app, nil
}

// ApplyConfig applies the reloadable subset of a new configuration. Client
// endpoints, cache sizes, and the storage path only take effect at startup.
func (a *App) ApplyConfig(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	if a.logLevel.Level() != level {
		a.logLevel.Set(level)
		a.Logger.Info("log level updated", "level", level.String())
	}
	a.Config = cfg
}

// LogLevel returns the current logging level.
func (a *App) LogLevel() slog.Level {
	return a.logLevel.Level()
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// openCardDB opens (and migrates) the local card store database.
func openCardDB(cfg *config.Config) (*storage.DB, error) {
	path := cfg.Storage.Path
	if path == "" {
		var err error
		path, err = config.DefaultStoragePath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open card store: %w", err)
	}
	return db, nil
}

// ShutdownTimeout is the grace period for server shutdown.
const ShutdownTimeout = 10 * time.Second
