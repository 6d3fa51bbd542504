package rules

import (
	"context"
	"strings"

	"insured-registration/internal/models"
)

type UsernameChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type PasswordChecker interface {
	CheckPasswordStrength(ctx context.Context, password string) (models.PasswordStrength, error)
}

// DefaultPasswordTiers are accepted when no tiers are configured.
var DefaultPasswordTiers = []models.PasswordTier{models.PasswordMedium, models.PasswordStrong}

// UsernameAvailable fails with USERNAME_TAKEN when the username is already registered.
func UsernameAvailable(checker UsernameChecker) AsyncRule {
	return func(ctx context.Context, value any) (*Violation, error) {
		username, _ := value.(string)
		exists, err := checker.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			return violation(CodeUsernameTaken, "username %q is already taken", username), nil
		}
		return nil, nil
	}
}

// StrongPassword fails with PASSWORD_TOO_WEAK unless the password reaches one of allowed.
// Tier names compare case-insensitively.
func StrongPassword(checker PasswordChecker, allowed []models.PasswordTier) AsyncRule {
	if len(allowed) == 0 {
		allowed = DefaultPasswordTiers
	}
	return func(ctx context.Context, value any) (*Violation, error) {
		password, _ := value.(string)
		strength, err := checker.CheckPasswordStrength(ctx, password)
		if err != nil {
			return nil, err
		}
		for _, tier := range allowed {
			if strings.EqualFold(string(tier), string(strength.Value)) {
				return nil, nil
			}
		}
		return violation(CodePasswordTooWeak, "password strength %q is not enough", strength.Value), nil
	}
}
