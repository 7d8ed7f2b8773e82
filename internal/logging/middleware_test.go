package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/stretchr/testify/require"
)

type StringAttr struct {
	Key   string
	Value string
}

func TestRequestLoggerMiddleware(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, request *http.Request) []StringAttr {
		t.Helper()

		buf := &bytes.Buffer{}
		middleware := logging.NewRequestLoggerMiddleware(slog.New(slog.NewJSONHandler(buf, nil)))

		handler := middleware(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Info("test")
		})

		w := httptest.NewRecorder()
		handler(w, request)

		var logEntry map[string]any
		err := json.Unmarshal(buf.Bytes(), &logEntry)
		require.NoError(t, err)

		attrs := make([]StringAttr, 0)
		foundBase := 0
		for key, value := range logEntry {
			switch key {
			case "msg":
				require.Equal(t, "test", value)
				foundBase++
			case "level":
				require.Equal(t, "INFO", value)
				foundBase++
			case "time", "correlationID":
				foundBase++
			default:
				attrs = append(attrs, StringAttr{Key: key, Value: value.(string)})
			}
		}
		require.Equal(t, 4, foundBase)

		return attrs
	}

	t.Run("all props", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/v1/players/Player1/connect", nil)
		req.SetPathValue("player", "Player1")
		req.Header.Set("User-Agent", "gameserver/1.0")

		attrs := run(t, req)

		require.ElementsMatch(t, []StringAttr{
			{Key: "playerId", Value: "Player1"},
			{Key: "userAgent", Value: "gameserver/1.0"},
			{Key: "methodPath", Value: "POST /v1/players/Player1/connect"},
		}, attrs)
	})

	t.Run("missing props", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/v1/awards", nil)
		req.Header.Del("User-Agent")

		attrs := run(t, req)

		require.ElementsMatch(t, []StringAttr{
			{Key: "playerId", Value: "<missing>"},
			{Key: "userAgent", Value: "<missing>"},
			{Key: "methodPath", Value: "GET /v1/awards"},
		}, attrs)
	})

	t.Run("without middleware", func(t *testing.T) {
		t.Parallel()

		logging.FromContext(context.Background()).Info("don't crash when no logger in context")
	})
}
