package models

// PasswordTier names a password strength level.
type PasswordTier string

const (
	PasswordTooWeak PasswordTier = "Too weak"
	PasswordWeak    PasswordTier = "Weak"
	PasswordMedium  PasswordTier = "Medium"
	PasswordStrong  PasswordTier = "Strong"
)

// PasswordStrength is the result of a strength check.
type PasswordStrength struct {
	ID       int          `json:"id"`
	Value    PasswordTier `json:"value"`
	Contains []string     `json:"contains"`
	Length   int          `json:"length"`
}
