package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insured-registration/internal/models"
)

func TestPasswordStrengthOf(t *testing.T) {
	tests := []struct {
		name             string
		password         string
		expectedID       int
		expectedValue    models.PasswordTier
		expectedContains []string
	}{
		{
			name:             "empty",
			password:         "",
			expectedID:       0,
			expectedValue:    models.PasswordTooWeak,
			expectedContains: []string{},
		},
		{
			name:             "short single class",
			password:         "abc",
			expectedID:       0,
			expectedValue:    models.PasswordTooWeak,
			expectedContains: []string{"lowercase"},
		},
		{
			name:             "two classes six characters",
			password:         "abcde1",
			expectedID:       1,
			expectedValue:    models.PasswordWeak,
			expectedContains: []string{"lowercase", "number"},
		},
		{
			name:             "long but only two classes",
			password:         "abcdefgh1234",
			expectedID:       1,
			expectedValue:    models.PasswordWeak,
			expectedContains: []string{"lowercase", "number"},
		},
		{
			name:             "all classes eight characters",
			password:         "Abcde1!x",
			expectedID:       2,
			expectedValue:    models.PasswordMedium,
			expectedContains: []string{"lowercase", "uppercase", "number", "symbol"},
		},
		{
			name:             "all classes ten characters",
			password:         "Abcde1!xyz",
			expectedID:       3,
			expectedValue:    models.PasswordStrong,
			expectedContains: []string{"lowercase", "uppercase", "number", "symbol"},
		},
		{
			name:             "non-ascii letter is not a symbol",
			password:         "Abcdef1ñ",
			expectedID:       1,
			expectedValue:    models.PasswordWeak,
			expectedContains: []string{"lowercase", "uppercase", "number"},
		},
		{
			name:             "space is not a symbol",
			password:         "Abcde1 xyz",
			expectedID:       1,
			expectedValue:    models.PasswordWeak,
			expectedContains: []string{"lowercase", "uppercase", "number"},
		},
		{
			name:             "ascii symbols count",
			password:         "Abcdefg1~",
			expectedID:       2,
			expectedValue:    models.PasswordMedium,
			expectedContains: []string{"lowercase", "uppercase", "number", "symbol"},
		},
		{
			name:             "three classes never reach medium",
			password:         "Abcdefgh12",
			expectedID:       1,
			expectedValue:    models.PasswordWeak,
			expectedContains: []string{"lowercase", "uppercase", "number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PasswordStrengthOf(tt.password)

			assert.Equal(t, tt.expectedID, result.ID)
			assert.Equal(t, tt.expectedValue, result.Value)
			assert.Equal(t, tt.expectedContains, result.Contains)
			assert.Equal(t, len([]rune(tt.password)), result.Length)
		})
	}
}

func TestClient_CheckPasswordStrength(t *testing.T) {
	client := NewClient(Options{})

	result, err := client.CheckPasswordStrength(context.Background(), "Str0ng!Pass")

	require.NoError(t, err)
	assert.Equal(t, models.PasswordStrong, result.Value)
	assert.Equal(t, 11, result.Length)
}
