package ports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Amund211/awardtracker/internal/app"
	"github.com/Amund211/awardtracker/internal/domain"
)

const maxRequestBodySize = 4096

var errInvalidBody = errors.New("invalid request body")

type errorResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, response any) error {
	data, err := json.Marshal(response)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"cause":"internal server error"}`))
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
	return nil
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, cause string) {
	// Can't fail
	_ = writeJSONResponse(w, statusCode, errorResponse{Success: false, Cause: cause})
}

func writeSuccessResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success":true}`))
}

// errorToStatus maps errors from the app layer to a status code and a cause shown to the caller
func errorToStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "invalid request body"
	case errors.Is(err, domain.ErrInvalidPlayerID):
		return http.StatusBadRequest, "invalid player id"
	case errors.Is(err, domain.ErrInvalidAwardID):
		return http.StatusBadRequest, "invalid award id"
	case errors.Is(err, app.ErrInvalidProgressMode):
		return http.StatusBadRequest, "invalid progress mode"
	case errors.Is(err, domain.ErrPlayerNotLoaded):
		return http.StatusConflict, "player not loaded"
	case errors.Is(err, domain.ErrAwardNotFound):
		return http.StatusNotFound, "award not found"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, cause := errorToStatus(err)
	if statusCode < http.StatusInternalServerError {
		recordRejection(r.Context(), cause)
	}
	writeErrorResponse(w, statusCode, cause)
}

// decodeBody decodes a JSON request body into target. An empty body leaves target untouched.
func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}
