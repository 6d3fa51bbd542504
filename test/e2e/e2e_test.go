// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"insured-registration/internal/common/config"
	"insured-registration/internal/common/database"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/gateway"
	"insured-registration/internal/mockapi"
	"insured-registration/internal/models"
	"insured-registration/internal/rules"
	"insured-registration/internal/wizard"
)

var zapLog *zap.Logger

func TestMain(m *testing.M) {
	zapLog = zap.NewNop()
	if os.Getenv("E2E_VERBOSE") != "" {
		zapLog, _ = zap.NewDevelopment()
	}

	code := m.Run()

	_ = zapLog.Sync()
	os.Exit(code)
}

type environment struct {
	cfg   *config.Config
	api   *mockapi.Server
	redis *miniredis.Miniredis
}

func setup(t *testing.T) *environment {
	t.Helper()

	fixtures, err := mockapi.DefaultFixtures()
	require.NoError(t, err)
	api := mockapi.NewServer(fixtures, mockapi.Options{})
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := fmt.Sprintf(`
app:
  name: insured-registration-e2e
apis:
  georef:
    base_url: %[1]s%[2]s
    timeout: 2000
  vehicles:
    base_url: %[1]s
    timeout: 2000
  insurance:
    base_url: %[1]s
    timeout: 2000
registration:
  delay: 10
  allowed_password_tiers: [Medium, Strong]
cache:
  enabled: true
  ttl: 60
database:
  redis:
    address: %[3]s
`, srv.URL, mockapi.GeoRefPrefix, mr.Addr())
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	return &environment{cfg: cfg, api: api, redis: mr}
}

func (e *environment) newWizard(t *testing.T) *wizard.Wizard {
	t.Helper()
	log := logger.NewZapAdapter(zapLog)

	rdb := database.NewRedis(e.cfg.Database.Redis)
	require.NoError(t, rdb.Ping(context.Background()))
	t.Cleanup(func() { _ = rdb.Close() })

	gw := gateway.NewCachedGateway(
		gateway.NewClientFromConfig(e.cfg, log),
		rdb.Client,
		time.Duration(e.cfg.Cache.TTL)*time.Second,
		log,
	)

	tiers := make([]models.PasswordTier, 0, len(e.cfg.Registration.AllowedPasswordTiers))
	for _, tier := range e.cfg.Registration.AllowedPasswordTiers {
		tiers = append(tiers, models.PasswordTier(tier))
	}

	return wizard.New(wizard.Options{
		Gateway: gw,
		Rules: rules.Options{
			AllowedTiers: tiers,
			PhoneRegion:  e.cfg.Registration.PhoneRegion,
			Concurrency:  e.cfg.Registration.ValidationConcurrency,
			Logger:       log,
		},
		Logger: log,
	})
}

func TestFullE2E(t *testing.T) {
	env := setup(t)

	answers, err := wizard.LoadAnswers("../../internal/wizard/testdata/answers.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("first registration", func(t *testing.T) {
		w := env.newWizard(t)
		confirmation, err := wizard.Run(ctx, w, answers)
		require.NoError(t, err)
		require.NotNil(t, confirmation)

		assert.Equal(t, wizard.StepSuccess, w.Step())
		assert.NotEqual(t, "", confirmation.ID.String())
		assert.Equal(t, "jperez", confirmation.Registration.PersonalInformation.Username)
		require.NotNil(t, confirmation.Registration.Coverage)
		assert.Equal(t, 2, confirmation.Registration.Coverage.Number)
		assert.NotEqual(t, answers.Personal.Password, w.Summary().PersonalInformation.Password)
	})

	t.Run("reference data cached", func(t *testing.T) {
		assert.True(t, env.redis.Exists("ref:provinces"))
		assert.True(t, env.redis.Exists("ref:cities:06"))
		assert.True(t, env.redis.Exists("ref:brands"))
		assert.True(t, env.redis.Exists("ref:models:1:2023"))
	})

	t.Run("second registration served from cache", func(t *testing.T) {
		provinces := env.api.Requests(mockapi.GeoRefPrefix + "/provincias")
		brands := env.api.Requests("/vehiculos/marcas")
		coverages := env.api.Requests("/coberturas")

		w := env.newWizard(t)
		_, err := wizard.Run(ctx, w, answers)
		require.NoError(t, err)

		assert.Equal(t, provinces, env.api.Requests(mockapi.GeoRefPrefix+"/provincias"))
		assert.Equal(t, brands, env.api.Requests("/vehiculos/marcas"))
		// coverages depend on the draft and are never cached
		assert.Equal(t, coverages+1, env.api.Requests("/coberturas"))
	})

	t.Run("taken username rejected", func(t *testing.T) {
		taken := *answers
		taken.Personal.Username = "taken1"

		w := env.newWizard(t)
		_, err := wizard.Run(ctx, w, &taken)
		require.Error(t, err)
		assert.Equal(t, wizard.StepPersonalData, w.Step())
	})
}
