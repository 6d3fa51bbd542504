package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "insured-registration/internal/common/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
apis:
  vehicles:
    base_url: http://localhost:8081
  insurance:
    base_url: http://localhost:8081
`

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "insured-registration", cfg.App.Name)
	assert.Equal(t, "https://apis.datos.gob.ar/georef/api", cfg.APIs.GeoRef.BaseURL)
	assert.Equal(t, 10000, cfg.APIs.Vehicles.Timeout)
	assert.Equal(t, 1000, cfg.APIs.MaxCities)
	assert.Equal(t, []string{"Medium", "Strong"}, cfg.Registration.AllowedPasswordTiers)
	assert.Equal(t, 20, cfg.Registration.YearRange)
	assert.Equal(t, "AR", cfg.Registration.PhoneRegion)
	assert.Equal(t, 3600, cfg.Cache.TTL)
	assert.Equal(t, ":8081", cfg.MockAPI.Address)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_INSURANCE_URL", "http://insurance.test")

	cfg, err := LoadFromFile(writeConfig(t, `
apis:
  vehicles:
    base_url: http://vehicles.test
  insurance:
    base_url: ${TEST_INSURANCE_URL}
registration:
  delay: 1500
`))
	require.NoError(t, err)

	assert.Equal(t, "http://insurance.test", cfg.APIs.Insurance.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(cfg.Registration.Delay))
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing insurance url",
			body: "apis:\n  vehicles:\n    base_url: http://localhost:8081\n",
		},
		{
			name: "relative url",
			body: "apis:\n  vehicles:\n    base_url: /vehiculos\n  insurance:\n    base_url: http://localhost:8081\n",
		},
		{
			name: "negative delay",
			body: minimal + "registration:\n  delay: -1\n",
		},
		{
			name: "cache without redis",
			body: minimal + "cache:\n  enabled: true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.False(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))
}
