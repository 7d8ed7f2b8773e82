package strutils

import (
	"fmt"
	"strings"
)

const MAX_IDENTIFIER_LENGTH = 64

const VALID_IDENTIFIER_CHARACTERS = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-."

// Player ids are platform account names, used verbatim as storage keys and file names
func ValidatePlayerID(playerID string) error {
	return validateIdentifier("player id", playerID)
}

func ValidateAwardID(awardID string) error {
	return validateIdentifier("award id", awardID)
}

func validateIdentifier(kind string, identifier string) error {
	if identifier == "" {
		return fmt.Errorf("%s is empty", kind)
	}
	if len(identifier) > MAX_IDENTIFIER_LENGTH {
		return fmt.Errorf("%s is too long. input: '%.80s'", kind, identifier)
	}
	if strings.HasPrefix(identifier, ".") {
		return fmt.Errorf("%s can't start with a dot. input: '%s'", kind, identifier)
	}

	for _, char := range identifier {
		if !strings.ContainsRune(VALID_IDENTIFIER_CHARACTERS, char) {
			return fmt.Errorf("invalid character in %s. input: '%s'", kind, identifier)
		}
	}

	return nil
}
