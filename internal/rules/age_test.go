package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsValidAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 16, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		expected  bool
	}{
		{name: "exactly eighteen today", birthDate: date(2007, time.June, 15), expected: false},
		{name: "eighteen since yesterday", birthDate: date(2007, time.June, 14), expected: true},
		{name: "turns eighteen tomorrow", birthDate: date(2007, time.June, 16), expected: false},
		{name: "exactly ninety-nine today", birthDate: date(1926, time.June, 15), expected: true},
		{name: "one day older than ninety-nine", birthDate: date(1926, time.June, 14), expected: false},
		{name: "born today", birthDate: date(2025, time.June, 15), expected: false},
		{name: "middle of the range", birthDate: date(1985, time.January, 1), expected: true},
		{name: "time of day is ignored", birthDate: time.Date(2007, time.June, 14, 23, 59, 0, 0, time.UTC), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidAge(tt.birthDate, now))
		})
	}
}

func TestBirthDateBounds(t *testing.T) {
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	bounds := BirthDateBounds(now)

	assert.Equal(t, date(1926, time.June, 15), bounds.Earliest)
	assert.Equal(t, date(2007, time.June, 14), bounds.Latest)
	assert.True(t, IsValidAge(bounds.Earliest, now))
	assert.True(t, IsValidAge(bounds.Latest, now))
	assert.False(t, IsValidAge(bounds.Earliest.AddDate(0, 0, -1), now))
	assert.False(t, IsValidAge(bounds.Latest.AddDate(0, 0, 1), now))
}

func TestAgeRule(t *testing.T) {
	now := date(2025, time.June, 15)
	rule := Age(func() time.Time { return now })

	assert.Nil(t, rule(nil))
	assert.Nil(t, rule(time.Time{}))
	assert.Nil(t, rule(date(1990, time.March, 3)))

	v := rule(date(2010, time.March, 3))
	if assert.NotNil(t, v) {
		assert.Equal(t, CodeAgeOutOfRange, v.Code)
	}
}

func TestAgeRule_RejectsOtherTypes(t *testing.T) {
	rule := Age(func() time.Time { return date(2025, time.June, 15) })

	for _, value := range []any{"1990-05-10", 19900510, &time.Time{}} {
		v := rule(value)
		if assert.NotNil(t, v, "%T", value) {
			assert.Equal(t, CodeInvalidType, v.Code)
		}
	}
}
