package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/Amund211/awardtracker/internal/config"
	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

var uuidRx = regexp.MustCompile(`[0-9a-f]{8}-?([0-9a-f]{4}-?){3}[0-9a-f]{12}`)
var hostRx = regexp.MustCompile(`\[:{0,2}([0-9a-f]{0,4}:?){1,8}\]:\d+`)
var saveFileRx = regexp.MustCompile(`[^\s"':]+\.json`)

func sanitizeError(err string) string {
	err = uuidRx.ReplaceAllString(err, "<uuid>")
	err = hostRx.ReplaceAllString(err, "<host>")
	err = saveFileRx.ReplaceAllString(err, "<savefile>")
	return err
}

// Report logs err and sends it to sentry, along with the meta stored in ctx and any extras
func Report(ctx context.Context, err error, extras ...map[string]string) {
	if err == nil {
		err = errors.New("No error provided")
	}

	logging.FromContext(ctx).ErrorContext(
		ctx,
		"Reporting error to Sentry",
		slog.String("error", err.Error()),
		slog.Any("extras", extras),
	)

	if errors.Is(err, context.Canceled) {
		// The caller went away, nothing to fix on our end
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		// Sentry is not initialized (development)
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		applyMeta(scope, MetaFromContext(ctx))
		for _, extra := range extras {
			for key, value := range extra {
				scope.SetExtra(key, value)
			}
		}

		scope.SetFingerprint([]string{"{{ default }}", sanitizeError(err.Error())})
		hub.CaptureException(err)
	})
}

func applyMeta(scope *sentry.Scope, meta ReportingMeta) {
	scope.SetTags(meta.tags)
	for key, value := range meta.extras {
		scope.SetExtra(key, value)
	}

	if meta.playerID != "" {
		scope.SetUser(sentry.User{ID: meta.playerID})
	}
	if meta.awardID != "" {
		scope.SetTag("awardId", meta.awardID)
	}
	if !meta.startedAt.IsZero() {
		scope.SetExtra("secondsSinceStart", time.Since(meta.startedAt).Seconds())
	}
}

// NewAddMetaMiddleware tags every request with the port it hit
func NewAddMetaMiddleware(portName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userAgent := r.UserAgent()
			if userAgent == "" {
				userAgent = "<missing>"
			}

			ctx = AddTagsToContext(ctx,
				map[string]string{
					"port":      portName,
					"userAgent": userAgent,
				},
			)

			if playerID := r.PathValue("player"); playerID != "" {
				ctx = SetPlayerIDInContext(ctx, playerID)
			}
			if awardID := r.PathValue("award"); awardID != "" {
				ctx = SetAwardIDInContext(ctx, awardID)
			}

			ctx = setStartedAtInContext(ctx, time.Now())

			next(w, r.WithContext(ctx))
		}
	}
}

// InitSentryMiddleware initializes the global sentry client. Returns a middleware creating
// a hub per request, and a function flushing buffered events.
func InitSentryMiddleware(sentryDSN string, environment string, serverName string) (func(http.HandlerFunc) http.HandlerFunc, func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              sentryDSN,
		Environment:      environment,
		ServerName:       serverName,
		EnableTracing:    true,
		TracesSampleRate: 1.0 / 100.0,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentryHandler := sentryhttp.New(sentryhttp.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})

	middleware := func(next http.HandlerFunc) http.HandlerFunc {
		return sentryHandler.HandleFunc(next)
	}

	flush := func() {
		sentry.Flush(5 * time.Second)
	}

	return middleware, flush, nil
}

// NewSentryMiddlewareOrMock initializes sentry if a DSN is configured. Only development may run without.
func NewSentryMiddlewareOrMock(config config.Config, serverName string) (func(http.HandlerFunc) http.HandlerFunc, func(), error) {
	if config.SentryDSN() != "" {
		return InitSentryMiddleware(config.SentryDSN(), config.Environment(), serverName)
	}

	if !config.IsDevelopment() {
		return nil, nil, fmt.Errorf("Missing Sentry DSN in non-development environment")
	}

	middleware := func(next http.HandlerFunc) http.HandlerFunc {
		return next
	}
	return middleware, func() {}, nil
}
