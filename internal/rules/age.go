package rules

import "time"

const (
	MinAge = 18
	MaxAge = 99
)

// IsValidAge reports whether birthDate falls in [today-99y, today-18y). Only calendar dates
// are compared.
func IsValidAge(birthDate, now time.Time) bool {
	d := dateOf(birthDate)
	today := dateOf(now)
	earliest := today.AddDate(-MaxAge, 0, 0)
	limit := today.AddDate(-MinAge, 0, 0)
	return !d.Before(earliest) && d.Before(limit)
}

// DateBounds are the earliest and latest selectable birth dates, both inclusive.
type DateBounds struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// BirthDateBounds returns the picker bounds matching IsValidAge.
func BirthDateBounds(now time.Time) DateBounds {
	today := dateOf(now)
	return DateBounds{
		Earliest: today.AddDate(-MaxAge, 0, 0),
		Latest:   today.AddDate(-MinAge, 0, -1),
	}
}

// Age checks a time.Time birth date against IsValidAge using clock for today.
func Age(clock func() time.Time) Rule {
	return func(value any) *Violation {
		return typed(value, func(d time.Time) *Violation {
			if !IsValidAge(d, clock()) {
				return violation(CodeAgeOutOfRange, "age must be between %d and %d years", MinAge, MaxAge)
			}
			return nil
		})
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
