package reporting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amund211/awardtracker/internal/config"
	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	t.Run("save files", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			error string
			want  string
		}{
			{
				error: `failed to read player data: open PlayerData/SomePlayer.json: permission denied`,
				want:  `failed to read player data: open <savefile>: permission denied`,
			},
			{
				error: `failed to parse player data: invalid character 'x' looking for beginning of value`,
				want:  `failed to parse player data: invalid character 'x' looking for beginning of value`,
			},
			{
				error: `rename /srv/awards/PlayerData/.Other_Player.json.tmp123 /srv/awards/PlayerData/Other_Player.json: no space left on device`,
				want:  `rename <savefile>.tmp123 <savefile>: no space left on device`,
			},
		}
		for _, tc := range cases {
			t.Run(tc.error, func(t *testing.T) {
				t.Parallel()

				require.Equal(t, tc.want, sanitizeError(tc.error))
			})
		}
	})

	t.Run("webhook errors", func(t *testing.T) {
		t.Parallel()

		err := `failed to send request: Post "http://[dead:beef::1]:8080/events": dial tcp [dead:beef::1]:8080: connect: connection refused`
		want := `failed to send request: Post "http://<host>/events": dial tcp <host>: connect: connection refused`
		require.Equal(t, want, sanitizeError(err))
	})

	t.Run("uuids", func(t *testing.T) {
		t.Parallel()

		err := `player deadbeef8315465d9d44cfc238c64f71 not loaded`
		require.Equal(t, `player <uuid> not loaded`, sanitizeError(err))
	})

	t.Run("misc ipv6", func(t *testing.T) {
		t.Parallel()

		ips := []string{
			`1:2:3:4:5:6:7:8`,
			`1::`,
			`1::8`,
			`1:2:3:4::6:7:8`,
			`::2:3:4:5:6:7:8`,
			`::8`,
			`::`,
		}
		for _, ip := range ips {
			t.Run(ip, func(t *testing.T) {
				t.Parallel()

				require.Equal(t, "<host>", sanitizeError(fmt.Sprintf("[%s]:1234", ip)))
			})
		}
	})
}

func TestReportWithoutSentry(t *testing.T) {
	t.Parallel()

	// Must not panic when sentry is not initialized
	Report(t.Context(), errors.New("some error"), map[string]string{"player": "Player1"})
	Report(t.Context(), nil)
}

func TestNewAddMetaMiddleware(t *testing.T) {
	t.Parallel()

	var meta ReportingMeta
	handler := NewAddMetaMiddleware("connect")(func(w http.ResponseWriter, r *http.Request) {
		meta = MetaFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/players/Player1/connect", nil)
	req.SetPathValue("player", "Player1")
	req.Header.Set("User-Agent", "gameserver/1.0")

	handler(httptest.NewRecorder(), req)

	require.Equal(t, map[string]string{
		"port":      "connect",
		"userAgent": "gameserver/1.0",
	}, meta.tags)
	require.Equal(t, "Player1", meta.playerID)
	require.Empty(t, meta.awardID)
	require.False(t, meta.startedAt.IsZero())

	t.Run("award requests are tagged with the award", func(t *testing.T) {
		t.Parallel()

		var meta ReportingMeta
		handler := NewAddMetaMiddleware("unlock")(func(w http.ResponseWriter, r *http.Request) {
			meta = MetaFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/players/Player1/awards/first_kill/unlock", nil)
		req.SetPathValue("player", "Player1")
		req.SetPathValue("award", "first_kill")

		handler(httptest.NewRecorder(), req)

		require.Equal(t, "<missing>", meta.tags["userAgent"])
		require.Equal(t, "Player1", meta.playerID)
		require.Equal(t, "first_kill", meta.awardID)
	})
}

func TestReportCanceled(t *testing.T) {
	t.Parallel()

	// Must not panic, and is never sent
	Report(t.Context(), fmt.Errorf("failed to load player: %w", context.Canceled))
}

func TestNewSentryMiddlewareOrMock(t *testing.T) {
	t.Setenv("AWARDS_ENVIRONMENT", "development")
	t.Setenv("SENTRY_DSN", "")

	conf, err := config.ConfigFromEnv()
	require.NoError(t, err)

	middleware, flush, err := NewSentryMiddlewareOrMock(conf, "instance")
	require.NoError(t, err)
	defer flush()

	called := false
	handler := middleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/v1/awards", nil))

	require.True(t, called)
	require.Equal(t, http.StatusNoContent, w.Code)
}
