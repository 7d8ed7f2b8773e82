package ports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Amund211/awardtracker/internal/app"
	"github.com/Amund211/awardtracker/internal/logging"
)

type progressRequest struct {
	Mode  app.ProgressMode `json:"mode"`
	Value *int             `json:"value"`
}

func addAwardMeta(r *http.Request) *http.Request {
	awardID := r.PathValue("award")

	return r.WithContext(logging.AddMetaToContext(r.Context(), slog.String("awardId", awardID)))
}

func MakeUpdateProgressHandler(
	updateProgress app.UpdateProgress,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("progress", rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		r = addAwardMeta(r)

		var request progressRequest
		err := decodeBody(r, &request)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if request.Value == nil {
			writeAppError(w, r, fmt.Errorf("%w: missing value", errInvalidBody))
			return
		}

		err = updateProgress(r.Context(), r.PathValue("player"), r.PathValue("award"), request.Mode, *request.Value)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeSuccessResponse(w)
	}

	return middleware(handler)
}

// MakeAwardActionHandler serves an operation on a single award record, like unlock, lock or remove
func MakeAwardActionHandler(
	portName string,
	action app.AwardAction,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(portName, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		r = addAwardMeta(r)

		err := action(r.Context(), r.PathValue("player"), r.PathValue("award"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeSuccessResponse(w)
	}

	return middleware(handler)
}

func MakeRemoveAllAwardsHandler(
	removeAllAwards app.RemoveAllAwards,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("remove_all", rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		err := removeAllAwards(r.Context(), r.PathValue("player"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeSuccessResponse(w)
	}

	return middleware(handler)
}
