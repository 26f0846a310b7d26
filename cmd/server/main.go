package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"arcology/site/internal/app/bootstrap"
	"arcology/site/internal/config"
	"arcology/site/internal/content"
	applog "arcology/site/internal/log"
	"arcology/site/internal/seed"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// environment carries what every command needs after the environment has been read.
type environment struct {
	cfg    *config.Config
	logger *logrus.Logger
	hub    *sentry.Hub
	flush  func()
}

func setup() (*environment, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, eris.Wrap(err, "failure initialising logger")
	}

	hub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     version,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failure initialising sentry")
	}

	return &environment{cfg: cfg, logger: logger, hub: hub, flush: flush}, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "arcology",
		Short:         "Arcology architecture firm website",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context())
			},
		},
		newSeedCommand(),
	)

	return root
}

func newSeedCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load site content into the database",
		Long: `Seed validates and upserts services, projects, testimonials, FAQs, blog posts
and admin users. Running it twice leaves the database unchanged.

Without --dir the dataset embedded in the binary is used. A directory must hold a
site.yaml file and a blog/ folder of markdown posts with front matter.`,
		Example: "  arcology seed\n  arcology seed --dir ./content",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory holding site.yaml and blog/ (default: embedded dataset)")

	return cmd
}

func migrate(ctx context.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.flush()

	store, err := bootstrap.OpenStore(ctx, *rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeStore(store, rt.logger)

	rt.logger.WithField("db_path", rt.cfg.DBPath).Info("database schema is up to date")
	return nil
}

func runSeed(ctx context.Context, dir string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.flush()

	fsys, err := seed.Default()
	if err != nil {
		return err
	}
	if dir != "" {
		fsys = os.DirFS(dir)
	}

	data, err := seed.Load(fsys)
	if err != nil {
		return eris.Wrap(err, "loading seed data")
	}

	store, err := bootstrap.OpenStore(ctx, *rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeStore(store, rt.logger)

	report, err := seed.Apply(ctx, store.Repository, data, rt.logger)
	if err != nil {
		return eris.Wrap(err, "applying seed data")
	}

	rt.logger.WithFields(logrus.Fields{
		"users":        report.Users,
		"services":     report.Services,
		"projects":     report.Projects,
		"testimonials": report.Testimonials,
		"blogs":        report.Blogs,
		"faqs":         report.Faqs,
	}).Infof("seeded %d records", report.Total())
	return nil
}

func serve(ctx context.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.flush()

	app, err := bootstrap.Build(ctx, bootstrap.Dependencies{
		Config:    *rt.cfg,
		Logger:    rt.logger,
		SentryHub: rt.hub,
	})
	if err != nil {
		return eris.Wrap(err, "building application")
	}
	defer func() {
		if cleanupErr := app.Cleanup(); cleanupErr != nil {
			rt.logger.WithError(cleanupErr).Error("closing application")
		}
	}()

	// Warm the cache so the first visitor does not see skeletons.
	app.Fetch.Prefetch(ctx, content.CollectionKeys()...)

	httpServer := &stdhttp.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", rt.cfg.ServerPort),
		Handler: app.HTTPServer.Handler(),
	}

	rt.logger.WithFields(logrus.Fields{
		"addr":    httpServer.Addr,
		"theme":   rt.cfg.SiteTheme,
		"version": version,
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		rt.logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	rt.logger.Info("http server shut down cleanly")
	return nil
}

func closeStore(store bootstrap.Store, logger *logrus.Logger) {
	if err := store.Close(); err != nil {
		logger.WithError(err).Error("closing database")
	}
}
