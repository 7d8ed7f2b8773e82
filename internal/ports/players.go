package ports

import (
	"log/slog"
	"net/http"

	"github.com/Amund211/awardtracker/internal/app"
)

func MakeConnectPlayerHandler(
	connectPlayer app.ConnectPlayer,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("connect", rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		err := connectPlayer(r.Context(), r.PathValue("player"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeSuccessResponse(w)
	}

	return middleware(handler)
}

type disconnectRequest struct {
	Reason string `json:"reason"`
}

func MakeDisconnectPlayerHandler(
	disconnectPlayer app.DisconnectPlayer,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("disconnect", rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		var request disconnectRequest
		err := decodeBody(r, &request)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		err = disconnectPlayer(r.Context(), r.PathValue("player"), request.Reason)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeSuccessResponse(w)
	}

	return middleware(handler)
}
