package app

import (
	"context"
	"fmt"

	"github.com/Amund211/awardtracker/internal/domain"
)

type ListAwards func(ctx context.Context) []domain.AwardDefinition

func BuildListAwards(catalog AwardCatalog) ListAwards {
	return func(ctx context.Context) []domain.AwardDefinition {
		return catalog.List()
	}
}

type GetAward func(ctx context.Context, awardID string) (domain.AwardDefinition, error)

func BuildGetAward(catalog AwardCatalog) GetAward {
	return func(ctx context.Context, awardID string) (domain.AwardDefinition, error) {
		if err := validateAwardID(awardID); err != nil {
			return domain.AwardDefinition{}, err
		}

		award, ok := catalog.Get(awardID)
		if !ok {
			return domain.AwardDefinition{}, fmt.Errorf("%w: %s", domain.ErrAwardNotFound, awardID)
		}
		return award, nil
	}
}
