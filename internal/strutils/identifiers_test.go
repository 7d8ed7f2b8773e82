package strutils_test

import (
	"strings"
	"testing"

	"github.com/Amund211/awardtracker/internal/strutils"
	"github.com/stretchr/testify/require"
)

func TestValidatePlayerID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input          string
		errorSubstring string
	}{
		{input: "Player1"},
		{input: "some_player-2"},
		{input: "dotted.name"},
		{input: "a"},
		{input: strings.Repeat("a", 64)},
		{input: "", errorSubstring: "player id is empty"},
		{input: strings.Repeat("a", 65), errorSubstring: "player id is too long"},
		{input: ".hidden", errorSubstring: "can't start with a dot"},
		{input: "..", errorSubstring: "can't start with a dot"},
		{input: "../etc/passwd", errorSubstring: "can't start with a dot"},
		{input: "dir/name", errorSubstring: "invalid character in player id"},
		{input: `dir\name`, errorSubstring: "invalid character in player id"},
		{input: "with space", errorSubstring: "invalid character in player id"},
		{input: "ønske", errorSubstring: "invalid character in player id"},
		{input: "name\x00", errorSubstring: "invalid character in player id"},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			t.Parallel()

			err := strutils.ValidatePlayerID(c.input)
			if c.errorSubstring == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, c.errorSubstring)
		})
	}
}

func TestValidateAwardID(t *testing.T) {
	t.Parallel()

	require.NoError(t, strutils.ValidateAwardID("first_kill"))
	require.ErrorContains(t, strutils.ValidateAwardID(""), "award id is empty")
	require.ErrorContains(t, strutils.ValidateAwardID("first kill"), "invalid character in award id")
}
