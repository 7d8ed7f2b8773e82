package ports_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amund211/awardtracker/internal/ports"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func noopMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r)
	}
}

func newAllowedOrigins(t *testing.T) *ports.DomainSuffixes {
	t.Helper()
	allowedOrigins, err := ports.NewDomainSuffixes("example.com")
	require.NoError(t, err)
	return allowedOrigins
}

// serve routes the request through a mux so path values are set like in production
func serve(t *testing.T, pattern string, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, bodyReader)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	return w
}

func newRequestWithOrigin(method, target, origin string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Origin", origin)
	req.RemoteAddr = "10.0.0.2:1234"
	return req
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
