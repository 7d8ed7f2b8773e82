package ports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Amund211/awardtracker/internal/app"
	"github.com/Amund211/awardtracker/internal/reporting"
)

type awardListResponse struct {
	Success bool            `json:"success"`
	Awards  []awardResponse `json:"awards"`
}

type singleAwardResponse struct {
	Success bool          `json:"success"`
	Award   awardResponse `json:"award"`
}

func MakeListAwardsHandler(
	listAwards app.ListAwards,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"list_awards",
		rootLogger,
		sentryMiddleware,
		BuildCORSMiddleware(allowedOrigins),
		newPublicRateLimitMiddleware(),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		awards := listAwards(ctx)

		response := awardListResponse{
			Success: true,
			Awards:  make([]awardResponse, 0, len(awards)),
		}
		for _, award := range awards {
			response.Awards = append(response.Awards, awardToResponse(award))
		}

		err := writeJSONResponse(w, http.StatusOK, response)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to write award list response: %w", err))
		}
	}

	return middleware(handler)
}

func MakeGetAwardHandler(
	getAward app.GetAward,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"get_award",
		rootLogger,
		sentryMiddleware,
		BuildCORSMiddleware(allowedOrigins),
		newPublicRateLimitMiddleware(),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		award, err := getAward(ctx, r.PathValue("award"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		err = writeJSONResponse(w, http.StatusOK, singleAwardResponse{Success: true, Award: awardToResponse(award)})
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to write award response: %w", err))
		}
	}

	return middleware(handler)
}
