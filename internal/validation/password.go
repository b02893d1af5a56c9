package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var commonPasswordFragments = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
	"jobsearch", "hireme",
}

// ValidatePassword enforces a 12 character minimum and bcrypt's 72 byte ceiling,
// and rejects passwords built around well known fragments.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}

	// bcrypt silently truncates past 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 bytes")
	}

	lower := strings.ToLower(password)
	for _, fragment := range commonPasswordFragments {
		if strings.Contains(lower, fragment) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
