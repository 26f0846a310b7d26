package bootstrap

import (
	"context"
	stdhttp "net/http"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"arcology/site/internal/config"
	"arcology/site/internal/consultation"
	"arcology/site/internal/content"
	"arcology/site/internal/db"
	"arcology/site/internal/fetch"
	apphttp "arcology/site/internal/http"
	"arcology/site/internal/site"
)

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

// Store is an opened, migrated database and the repository over it.
type Store struct {
	Database   *gorm.DB
	Repository *content.GormRepository
}

// Close releases the database connection.
func (s Store) Close() error {
	return db.Close(s.Database)
}

type Result struct {
	Catalog    content.Catalog
	Fetch      *fetch.Client
	HTTPServer *apphttp.Server
	Database   *gorm.DB
	Repository *content.GormRepository
	Cleanup    func() error
}

// OpenStore opens the database and brings its schema up to date.
func OpenStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (Store, error) {
	database, err := db.Open(db.Options{Path: cfg.DBPath})
	if err != nil {
		return Store{}, eris.Wrap(err, "opening database")
	}

	if err := content.Migrate(ctx, database, logger); err != nil {
		closeQuietly(database, logger)
		return Store{}, eris.Wrap(err, "running content migrations")
	}

	repo, err := content.NewRepository(database, logger)
	if err != nil {
		closeQuietly(database, logger)
		return Store{}, eris.Wrap(err, "creating content repository")
	}

	return Store{Database: database, Repository: repo}, nil
}

// Build composes the site's layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	cfg := deps.Config

	store, err := OpenStore(ctx, cfg, deps.Logger)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		closeQuietly(store.Database, deps.Logger)
		return Result{}, wrapper
	}

	catalog, err := content.NewCatalog(store.Repository, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content catalog"))
	}

	loader, err := newLoader(cfg, catalog)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content loader"))
	}

	fetchClient, err := fetch.New(fetch.Options{
		Loader:     loader,
		StaleAfter: cfg.FetchStaleAfter,
		Timeout:    cfg.FetchTimeout,
		Capacity:   cfg.FetchCapacity,
		Logger:     deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating fetch client"))
	}

	theme, err := site.LoadTheme(cfg.SiteTheme, cfg.ThemeFile)
	if err != nil {
		return closeOnError(eris.Wrap(err, "loading site theme"))
	}

	booker, err := consultation.New(consultation.Options{
		Endpoint: cfg.ConsultationEndpoint,
		Timeout:  cfg.ConsultationTimeout,
		Logger:   deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating consultation client"))
	}
	if !booker.Configured() && deps.Logger != nil {
		deps.Logger.Warn("CONSULTATION_ENDPOINT is not set; online scheduling is disabled")
	}

	httpServer, err := apphttp.NewServer(apphttp.Options{
		Catalog:   catalog,
		Fetch:     fetchClient,
		Database:  store.Database,
		Theme:     theme,
		Booker:    booker,
		Logger:    deps.Logger,
		SentryHub: deps.SentryHub,
		RateLimiter: apphttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
		RenderWait: cfg.RenderWait,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return store.Close()
	}

	return Result{
		Catalog:    catalog,
		Fetch:      fetchClient,
		HTTPServer: httpServer,
		Database:   store.Database,
		Repository: store.Repository,
		Cleanup:    cleanup,
	}, nil
}

// newLoader reads content from a remote JSON API when one is configured and from the
// local catalog otherwise.
func newLoader(cfg config.Config, catalog content.Catalog) (fetch.Loader, error) {
	if cfg.ContentAPIURL == "" {
		return content.NewResourceLoader(catalog)
	}
	return fetch.NewHTTPLoader(fetch.HTTPLoaderOptions{
		BaseURL: cfg.ContentAPIURL,
		Client:  &stdhttp.Client{Timeout: cfg.FetchTimeout},
	})
}

func closeQuietly(database *gorm.DB, logger *logrus.Logger) {
	if closeErr := db.Close(database); closeErr != nil && logger != nil {
		logger.WithError(closeErr).Error("closing database after bootstrap failure")
	}
}
