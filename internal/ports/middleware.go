package ports

import (
	"log/slog"
	"net/http"

	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/Amund211/awardtracker/internal/ratelimiting"
	"github.com/Amund211/awardtracker/internal/reporting"
)

func NewRateLimitMiddleware(rateLimiter ratelimiting.RequestRateLimiter, onLimitExceeded http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rateLimiter.Consume(r) {
				onLimitExceeded(w, r)
				return
			}

			next(w, r)
		}
	}
}

func ComposeMiddlewares(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	if len(middlewares) == 1 {
		return middlewares[0]
	}
	first := middlewares[0]
	rest := ComposeMiddlewares(middlewares[1:]...)
	return func(h http.HandlerFunc) http.HandlerFunc {
		return first(rest(h))
	}
}

// buildPortMiddleware is the middleware stack shared by all ports, followed by extra
func buildPortMiddleware(
	portName string,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
	extra ...func(http.HandlerFunc) http.HandlerFunc,
) func(http.HandlerFunc) http.HandlerFunc {
	middlewares := []func(http.HandlerFunc) http.HandlerFunc{
		buildMetricsMiddleware(portName),
		logging.NewRequestLoggerMiddleware(rootLogger.With("port", portName)),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(portName),
	}
	return ComposeMiddlewares(append(middlewares, extra...)...)
}

// newPublicRateLimitMiddleware limits the read endpoints per caller ip, as they may be called from outside the game server
func newPublicRateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return newKeyedRateLimitMiddleware(ratelimiting.IPKeyFunc, 4, 120)
}

// newPlayerRateLimitMiddleware limits reads of a single player's awards, which may hit storage
func newPlayerRateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return newKeyedRateLimitMiddleware(ratelimiting.PlayerKeyFunc, 2, 60)
}

func newKeyedRateLimitMiddleware(
	keyFunc func(r *http.Request) string,
	refillPerSecond ratelimiting.RefillPerSecond,
	burstSize ratelimiting.BurstSize,
) func(http.HandlerFunc) http.HandlerFunc {
	limiter, _ := ratelimiting.NewTokenBucketRateLimiter(refillPerSecond, burstSize)
	requestRateLimiter := ratelimiting.NewRequestBasedRateLimiter(limiter, keyFunc)

	return NewRateLimitMiddleware(requestRateLimiter, func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).InfoContext(
			r.Context(),
			"Rate limit exceeded",
			slog.String("key", requestRateLimiter.KeyFor(r)),
		)
		recordRejection(r.Context(), "rate limit exceeded")
		writeErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
	})
}
