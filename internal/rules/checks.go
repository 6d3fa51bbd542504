package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"insured-registration/internal/common/validation"
	"insured-registration/internal/form"
)

var (
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
	lettersPattern = regexp.MustCompile(`^[A-Za-z]+$`)
)

// typed runs check on non-empty values of type T. A value of any other type is
// reported as INVALID_TYPE.
func typed[T any](value any, check func(T) *Violation) *Violation {
	if form.IsEmpty(value) {
		return nil
	}
	v, ok := value.(T)
	if !ok {
		return violation(CodeInvalidType, "has an unexpected value of type %T", value)
	}
	return check(v)
}

func violation(code Code, format string, args ...any) *Violation {
	return &Violation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Required fails on nil and on the zero value of any type.
func Required() Rule {
	return func(value any) *Violation {
		if form.IsEmpty(value) {
			return violation(CodeRequired, "is required")
		}
		return nil
	}
}

// The rules below pass on empty values so they compose with optional fields.

// Is fails when a non-empty value is not a T.
func Is[T any]() Rule {
	return func(value any) *Violation {
		return typed(value, func(T) *Violation { return nil })
	}
}

// NotBlank fails on whitespace-only strings.
func NotBlank() Rule {
	return func(value any) *Violation {
		return typed(value, func(s string) *Violation {
			if strings.TrimSpace(s) == "" {
				return violation(CodeBlank, "must not be blank")
			}
			return nil
		})
	}
}

// Length bounds the rune count of a string.
func Length(minLen, maxLen int) Rule {
	return func(value any) *Violation {
		return typed(value, func(s string) *Violation {
			n := utf8.RuneCountInString(s)
			switch {
			case n < minLen:
				return violation(CodeMinLength, "must have at least %d characters", minLen)
			case n > maxLen:
				return violation(CodeMaxLength, "must have at most %d characters", maxLen)
			}
			return nil
		})
	}
}

func Digits() Rule {
	return func(value any) *Violation {
		return typed(value, func(s string) *Violation {
			if !digitsPattern.MatchString(s) {
				return violation(CodeNotNumeric, "must contain digits only")
			}
			return nil
		})
	}
}

// Letters accepts ASCII letters only.
func Letters() Rule {
	return Pattern(lettersPattern, "must contain letters only")
}

func Pattern(re *regexp.Regexp, message string) Rule {
	return func(value any) *Violation {
		return typed(value, func(s string) *Violation {
			if !re.MatchString(s) {
				return violation(CodePattern, "%s", message)
			}
			return nil
		})
	}
}

func Email() Rule {
	return func(value any) *Violation {
		return typed(value, func(s string) *Violation {
			if !validation.ValidateEmail(s) {
				return violation(CodeInvalidEmail, "must be a valid email address")
			}
			return nil
		})
	}
}
