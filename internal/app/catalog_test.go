package app

import (
	"testing"

	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	b := domaintest.NewAwardBuilder("b").Build()
	a := domaintest.NewAwardBuilder("a").WithName("A").Build()
	_, reg, _ := newTestStore(t, b, a)

	require.Equal(t, []domain.AwardDefinition{a, b}, BuildListAwards(reg)(t.Context()))

	award, err := BuildGetAward(reg)(t.Context(), "a")
	require.NoError(t, err)
	require.Equal(t, a, award)

	_, err = BuildGetAward(reg)(t.Context(), "c")
	require.ErrorIs(t, err, domain.ErrAwardNotFound)

	_, err = BuildGetAward(reg)(t.Context(), "")
	require.ErrorIs(t, err, domain.ErrInvalidAwardID)
}
