package ports

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/Amund211/awardtracker/internal/ratelimiting"
	"github.com/stretchr/testify/require"
)

type mockedRateLimiter struct {
	t           *testing.T
	allow       bool
	expectedKey string
}

func (m *mockedRateLimiter) Consume(key string) bool {
	m.t.Helper()
	require.Equal(m.t, m.expectedKey, key)
	return m.allow
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	runTest := func(t *testing.T, allow bool) {
		t.Helper()
		handlerCalled := false
		onLimitExceededCalled := false
		rateLimiter := &mockedRateLimiter{
			t:           t,
			allow:       allow,
			expectedKey: "ip: 12.12.123.123",
		}
		ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
			rateLimiter, ratelimiting.IPKeyFunc,
		)

		w := httptest.NewRecorder()
		middleware := NewRateLimitMiddleware(
			ipRateLimiter,
			func(w http.ResponseWriter, r *http.Request) {
				onLimitExceededCalled = true
				writeErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			},
		)
		handler := middleware(
			func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			},
		)

		req, err := http.NewRequest("GET", "http://example.com/v1/awards", nil)
		require.NoError(t, err)
		req.RemoteAddr = "12.12.123.123:58418"

		handler(w, req)

		if allow {
			require.True(t, handlerCalled, "Expected handler to be called")
			require.False(t, onLimitExceededCalled)
			require.Equal(t, http.StatusOK, w.Code)
		} else {
			require.True(t, onLimitExceededCalled)
			require.False(t, handlerCalled, "Expected handler to not be called")
			require.Equal(t, http.StatusTooManyRequests, w.Code)
			require.JSONEq(t, `{"success":false,"cause":"rate limit exceeded"}`, w.Body.String())
		}
	}

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()

		runTest(t, true)
	})

	t.Run("not allowed", func(t *testing.T) {
		t.Parallel()

		runTest(t, false)
	})
}

func TestComposeMiddlewares(t *testing.T) {
	t.Parallel()

	order := []string{}
	makeMiddleware := func(name string) func(http.HandlerFunc) http.HandlerFunc {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}

	handler := ComposeMiddlewares(
		makeMiddleware("first"),
		makeMiddleware("second"),
		makeMiddleware("third"),
	)(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "third", "handler"}, order)
}

func TestBuildPortMiddleware(t *testing.T) {
	t.Parallel()

	sentryCalled := false
	sentryMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sentryCalled = true
			next(w, r)
		}
	}

	var requestLogger *slog.Logger
	handler := buildPortMiddleware(
		"test",
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		sentryMiddleware,
	)(func(w http.ResponseWriter, r *http.Request) {
		requestLogger = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, sentryCalled)
	require.NotNil(t, requestLogger)
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestErrorToStatus(t *testing.T) {
	t.Parallel()

	statusCode, cause := errorToStatus(io.ErrUnexpectedEOF)
	require.Equal(t, http.StatusInternalServerError, statusCode)
	require.Equal(t, "internal server error", cause)
}

func TestPlayerRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	handler := newPlayerRateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(playerID string, i int) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/v1/players/"+playerID+"/awards", nil)
		r.SetPathValue("player", playerID)
		// Spread over many ips so only the player limit applies
		r.RemoteAddr = fmt.Sprintf("10.0.%d.%d:1234", i/256, i%256)
		w := httptest.NewRecorder()
		handler(w, r)
		return w
	}

	limited := false
	for i := range 500 {
		w := request("Player1", i)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			require.JSONEq(t, `{"success":false,"cause":"rate limit exceeded"}`, w.Body.String())
			break
		}
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.True(t, limited)

	require.Equal(t, http.StatusOK, request("Player2", 0).Code)
}
