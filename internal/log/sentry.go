package log

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	sentrylogrus "github.com/getsentry/sentry-go/logrus"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// SentrySettings represents the configuration required to bootstrap Sentry.
type SentrySettings struct {
	DSN         string
	Environment string
	Release     string
}

// InitSentry wires up Sentry exception logging and connects it to the provided logrus logger.
// An empty DSN disables Sentry and returns a nil hub with a no-op flush.
func InitSentry(logger *logrus.Logger, settings SentrySettings) (*sentry.Hub, func(), error) {
	if settings.DSN == "" {
		return nil, func() {}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         settings.DSN,
		Environment: settings.Environment,
		Release:     settings.Release,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "error initializing sentry client")
	}

	hub := sentry.NewHub(client, sentry.NewScope())

	if logger != nil {
		hook := sentrylogrus.NewLogHookFromClient([]logrus.Level{
			logrus.ErrorLevel,
			logrus.FatalLevel,
			logrus.PanicLevel,
		}, client)
		logger.AddHook(hook)
	}

	flush := func() {
		hub.Flush(2 * time.Second)
	}

	return hub, flush, nil
}

// Reporter logs errors and forwards them to Sentry. The zero value is usable and silent.
type Reporter struct {
	Logger *logrus.Logger
	Hub    *sentry.Hub
}

// Record logs err with the supplied fields and captures it on the request hub when one is
// attached to ctx, falling back to the reporter's hub.
func (r Reporter) Record(ctx context.Context, fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if r.Logger != nil {
		entry := r.Logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
			return
		}
	}
	if r.Hub != nil {
		r.Hub.CaptureException(err)
	}
}
