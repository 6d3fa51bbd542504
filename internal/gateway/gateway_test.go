package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "insured-registration/internal/common/errors"
	commonhttp "insured-registration/internal/common/http"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/mockapi"
	"insured-registration/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newMockServer(t *testing.T) (*httptest.Server, *mockapi.Server) {
	t.Helper()
	fixtures, err := mockapi.DefaultFixtures()
	require.NoError(t, err)

	api := mockapi.NewServer(fixtures, mockapi.Options{Logger: logger.NewTestLogger(t)})
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv, api
}

func createTestClient(t *testing.T, baseURL string, modify func(*Options)) *Client {
	t.Helper()
	opts := Options{
		GeoRefURL:    baseURL + mockapi.GeoRefPrefix,
		VehiclesURL:  baseURL,
		InsuranceURL: baseURL,
		HTTPClient:   commonhttp.NewClient(5 * time.Second),
		Logger:       logger.NewTestLogger(t),
	}
	if modify != nil {
		modify(&opts)
	}
	return NewClient(opts)
}

func createCompleteDraft() models.RegistrationDraft {
	return models.RegistrationDraft{}.
		WithPersonalInformation(models.PersonalInformation{
			IDNumber: "30123456",
			Name:     "Juan",
			LastName: "Perez",
			Username: "jperez",
			Password: "Str0ng!Pass",
		}).
		WithVehicleInformation(models.VehicleInformation{
			Brand: models.VehicleBrand{Code: 1, Description: "FIAT"},
			Year:  2023,
			Model: models.VehicleModel{Code: 10, Description: "CRONOS"},
		}).
		WithCoverage(models.Coverage{Number: 2, Title: "Terceros Completo"})
}

// ==========================
// Lookup Tests
// ==========================

func TestClient_ReferenceLookups(t *testing.T) {
	srv, _ := newMockServer(t)
	client := createTestClient(t, srv.URL, nil)
	ctx := context.Background()

	t.Run("provinces", func(t *testing.T) {
		provinces, err := client.Provinces(ctx)
		require.NoError(t, err)
		require.Len(t, provinces, 3)
		assert.Equal(t, models.Province{ID: "06", Name: "Buenos Aires"}, provinces[0])
	})

	t.Run("cities of a province", func(t *testing.T) {
		cities, err := client.Cities(ctx, models.Province{ID: "06"})
		require.NoError(t, err)
		require.Len(t, cities, 2)
		assert.Equal(t, "La Plata", cities[1].Name)
	})

	t.Run("cities honour the page size", func(t *testing.T) {
		limited := createTestClient(t, srv.URL, func(o *Options) { o.MaxCities = 1 })
		cities, err := limited.Cities(ctx, models.Province{ID: "06"})
		require.NoError(t, err)
		assert.Len(t, cities, 1)
	})

	t.Run("brands", func(t *testing.T) {
		brands, err := client.Brands(ctx)
		require.NoError(t, err)
		assert.Contains(t, brands, models.VehicleBrand{Code: 1, Description: "FIAT"})
	})

	t.Run("models depend on brand and year", func(t *testing.T) {
		result, err := client.Models(ctx, models.VehicleBrand{Code: 1}, 2023)
		require.NoError(t, err)
		assert.Len(t, result, 2)

		result, err = client.Models(ctx, models.VehicleBrand{Code: 1}, 2022)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("versions", func(t *testing.T) {
		versions, err := client.Versions(ctx, models.VehicleBrand{Code: 1}, 2023, models.VehicleModel{Code: 10})
		require.NoError(t, err)
		assert.Contains(t, versions, models.VehicleVersion{Code: 5, Description: "1.3 DRIVE"})
	})

	t.Run("unknown combination yields an empty list", func(t *testing.T) {
		versions, err := client.Versions(ctx, models.VehicleBrand{Code: 99}, 2023, models.VehicleModel{Code: 1})
		require.NoError(t, err)
		assert.Empty(t, versions)
	})

	t.Run("coverages", func(t *testing.T) {
		coverages, err := client.Coverages(ctx, createCompleteDraft())
		require.NoError(t, err)
		require.Len(t, coverages, 3)
		assert.Equal(t, 2, coverages[1].Number)
		assert.True(t, coverages[1].HailCoverage)
	})
}

func TestClient_UsernameExists(t *testing.T) {
	srv, _ := newMockServer(t)
	client := createTestClient(t, srv.URL, nil)

	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{name: "taken username", username: "taken1", expected: true},
		{name: "free username", username: "newuser", expected: false},
		{name: "case sensitive", username: "Taken1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := client.UsernameExists(context.Background(), tt.username)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
		})
	}
}

func TestClient_Years(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	client := createTestClient(t, "http://unused", func(o *Options) { o.Now = func() time.Time { return now } })

	years, err := client.Years(context.Background())
	require.NoError(t, err)
	require.Len(t, years, 20)
	assert.Equal(t, models.VehicleYear(2025), years[0])
	assert.Equal(t, models.VehicleYear(2006), years[19])
	for i := 1; i < len(years); i++ {
		assert.Equal(t, years[i-1]-1, years[i])
	}
}

func TestYearsFrom(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, []models.VehicleYear{2024, 2023, 2022}, YearsFrom(now, 3))
	assert.Empty(t, YearsFrom(now, 0))
}

// ==========================
// Error Mapping Tests
// ==========================

func TestClient_LookupErrors(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		timeout      time.Duration
		expectedCode apperrors.ErrorCode
		retryable    bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			expectedCode: apperrors.ErrCodeLookupFailed,
			retryable:    true,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"provincias": [`))
			},
			expectedCode: apperrors.ErrCodeLookupDecode,
			retryable:    false,
		},
		{
			name: "slow upstream",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
			timeout:      20 * time.Millisecond,
			expectedCode: apperrors.ErrCodeLookupTimeout,
			retryable:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := createTestClient(t, srv.URL, func(o *Options) { o.GeoRefTimeout = tt.timeout })
			provinces, err := client.Provinces(context.Background())

			require.Error(t, err)
			assert.Nil(t, provinces)

			stdErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.Equal(t, "provinces", stdErr.Metadata["operation"])
		})
	}
}

func TestClient_LookupErrors_StatusMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := createTestClient(t, srv.URL, nil)
	_, err := client.UsernameExists(context.Background(), "someone")

	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, stdErr.Metadata["statusCode"])
}

// ==========================
// Register Tests
// ==========================

func TestClient_Register(t *testing.T) {
	fixedID := uuid.MustParse("2f1d5a7e-8b7c-4d2a-9e55-0c3b6a1f4e21")
	fixedNow := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("echoes the draft with a confirmation id", func(t *testing.T) {
		client := createTestClient(t, "http://unused", func(o *Options) {
			o.RegisterDelay = 10 * time.Millisecond
			o.NewID = func() uuid.UUID { return fixedID }
			o.Now = func() time.Time { return fixedNow }
		})
		draft := createCompleteDraft()

		confirmation, err := client.Register(context.Background(), draft)

		require.NoError(t, err)
		assert.Equal(t, fixedID, confirmation.ID)
		assert.Equal(t, fixedNow, confirmation.RegisteredAt)
		assert.Equal(t, draft, confirmation.Registration)
	})

	t.Run("rejects an incomplete draft", func(t *testing.T) {
		client := createTestClient(t, "http://unused", nil)
		draft := models.RegistrationDraft{}.WithCoverage(models.Coverage{Number: 1})

		confirmation, err := client.Register(context.Background(), draft)

		assert.Nil(t, confirmation)
		require.True(t, apperrors.HasCode(err, apperrors.ErrCodeDraftIncomplete))
		stdErr, _ := apperrors.As(err)
		assert.Contains(t, stdErr.Details, "personalInformation")
		assert.Contains(t, stdErr.Details, "vehicleInformation")
		assert.NotContains(t, stdErr.Details, "coverage")
	})

	t.Run("cancellation during the delay fails the registration", func(t *testing.T) {
		client := createTestClient(t, "http://unused", func(o *Options) { o.RegisterDelay = time.Second })
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		confirmation, err := client.Register(ctx, createCompleteDraft())

		assert.Nil(t, confirmation)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRegistrationFailed))
	})
}
