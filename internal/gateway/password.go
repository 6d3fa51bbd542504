package gateway

import (
	"context"
	"unicode"
	"unicode/utf8"

	"insured-registration/internal/models"
)

type passwordTier struct {
	id           int
	value        models.PasswordTier
	minDiversity int
	minLength    int
}

var passwordTiers = []passwordTier{
	{id: 0, value: models.PasswordTooWeak, minDiversity: 0, minLength: 0},
	{id: 1, value: models.PasswordWeak, minDiversity: 2, minLength: 6},
	{id: 2, value: models.PasswordMedium, minDiversity: 4, minLength: 8},
	{id: 3, value: models.PasswordStrong, minDiversity: 4, minLength: 10},
}

// CheckPasswordStrength grades the password locally; it never fails.
func (c *Client) CheckPasswordStrength(_ context.Context, password string) (models.PasswordStrength, error) {
	return PasswordStrengthOf(password), nil
}

// PasswordStrengthOf returns the highest tier whose diversity and length thresholds are met.
func PasswordStrengthOf(password string) models.PasswordStrength {
	contains := characterClasses(password)
	length := utf8.RuneCountInString(password)

	tier := passwordTiers[0]
	for _, t := range passwordTiers {
		if len(contains) >= t.minDiversity && length >= t.minLength {
			tier = t
		}
	}

	return models.PasswordStrength{
		ID:       tier.id,
		Value:    tier.value,
		Contains: contains,
		Length:   length,
	}
}

func characterClasses(password string) []string {
	var lower, upper, number, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			number = true
		case r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
			symbol = true
		}
	}

	contains := []string{}
	if lower {
		contains = append(contains, "lowercase")
	}
	if upper {
		contains = append(contains, "uppercase")
	}
	if number {
		contains = append(contains, "number")
	}
	if symbol {
		contains = append(contains, "symbol")
	}
	return contains
}
