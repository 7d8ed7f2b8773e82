package ports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Amund211/awardtracker/internal/app"
	"github.com/Amund211/awardtracker/internal/reporting"
)

type playerAwardsResponse struct {
	Success bool             `json:"success"`
	Player  string           `json:"player"`
	Awards  []recordResponse `json:"awards"`
}

func MakeGetPlayerAwardsHandler(
	getPlayerAwards app.GetPlayerAwards,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"player_awards",
		rootLogger,
		sentryMiddleware,
		BuildCORSMiddleware(allowedOrigins),
		newPublicRateLimitMiddleware(),
		newPlayerRateLimitMiddleware(),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		playerID := r.PathValue("player")

		records, err := getPlayerAwards(ctx, playerID)
		if err != nil {
			// NOTE: GetPlayerAwards implementations handle their own error reporting
			writeAppError(w, r, err)
			return
		}

		response := playerAwardsResponse{
			Success: true,
			Player:  playerID,
			Awards:  make([]recordResponse, 0, len(records)),
		}
		for _, record := range records {
			response.Awards = append(response.Awards, recordToResponse(record))
		}

		err = writeJSONResponse(w, http.StatusOK, response)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to write player awards response: %w", err))
		}
	}

	return middleware(handler)
}
