package ports_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amund211/awardtracker/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	allowedOrigins, err := ports.ParseDomainSuffixes("example-server.net, stats.example.org")
	require.NoError(t, err)

	for _, tc := range []struct {
		origin  string
		allowed bool
	}{
		{origin: "https://example-server.net", allowed: true},
		{origin: "https://www.example-server.net", allowed: true},
		{origin: "https://stats.example.org", allowed: true},
		{origin: "https://eu.stats.example.org", allowed: true},
		{origin: "https://example-server.net:8443", allowed: true},

		{origin: "example-server.net", allowed: false},
		{origin: "http://example-server.net", allowed: false},
		{origin: "https://example.org", allowed: false},
		{origin: "https://evilexample-server.net", allowed: false},
		{origin: "https://example-server.net.evil.com", allowed: false},
		{origin: "", allowed: false},
		{origin: "https://user@example-server.net", allowed: false},
		{origin: "https://example-server.net/path", allowed: false},
		{origin: "null", allowed: false},
	} {
		t.Run(tc.origin, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.allowed, allowedOrigins.AnyMatch(tc.origin))

			handlerCalled := false
			handler := ports.BuildCORSMiddleware(allowedOrigins)(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/awards", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()
			handler(w, req)

			require.True(t, handlerCalled)
			if tc.allowed {
				require.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}

			req = httptest.NewRequest(http.MethodOptions, "/v1/awards", nil)
			req.Header.Set("Origin", tc.origin)
			w = httptest.NewRecorder()
			ports.BuildCORSHandler(allowedOrigins)(w, req)

			require.Equal(t, http.StatusNoContent, w.Code)
			if tc.allowed {
				require.Equal(t, "GET", w.Header().Get("Access-Control-Allow-Methods"))
			} else {
				require.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestParseDomainSuffixes(t *testing.T) {
	t.Parallel()

	suffixes, err := ports.ParseDomainSuffixes("")
	require.NoError(t, err)
	require.False(t, suffixes.AnyMatch("https://example.com"))

	_, err = ports.ParseDomainSuffixes(".example.com")
	require.Error(t, err)

	_, err = ports.ParseDomainSuffixes("https://example.com")
	require.Error(t, err)
}
