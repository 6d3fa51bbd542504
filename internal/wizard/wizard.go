// Package wizard drives one insured registration session: the step state machine, the
// per-step forms with their option cascades, and the accumulated draft.
package wizard

import (
	"context"
	"sync"
	"time"

	"insured-registration/internal/cascade"
	apperrors "insured-registration/internal/common/errors"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/form"
	"insured-registration/internal/gateway"
	"insured-registration/internal/models"
	"insured-registration/internal/rules"
)

// Recorder receives step and submit outcomes.
type Recorder interface {
	RecordStep(ctx context.Context, step string, status string)
	RecordSubmit(ctx context.Context, duration time.Duration, status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordStep(context.Context, string, string)          {}
func (nopRecorder) RecordSubmit(context.Context, time.Duration, string) {}

type Options struct {
	Gateway gateway.Gateway
	// Rules configures validation. Usernames and Passwords default to Gateway.
	Rules    rules.Options
	Recorder Recorder
	Logger   logger.Logger
}

// Wizard is safe for concurrent use. Field values are written through the step forms;
// step transitions go through the Wizard methods.
type Wizard struct {
	mu    sync.Mutex
	step  Step
	draft models.RegistrationDraft

	gateway  gateway.Gateway
	recorder Recorder
	reporter *apperrors.Reporter
	logger   logger.Logger

	personal *form.Form
	vehicle  *form.Form
	coverage *form.Form

	personalRules *rules.Set
	vehicleRules  *rules.Set
	coverageRules *rules.Set

	personalCascade *cascade.Controller
	vehicleCascade  *cascade.Controller
	coverageCascade *cascade.Controller

	provinces     *cascade.Level[models.Province]
	cities        *cascade.Level[models.City]
	brands        *cascade.Level[models.VehicleBrand]
	years         *cascade.Level[models.VehicleYear]
	vehicleModels *cascade.Level[models.VehicleModel]
	versions      *cascade.Level[models.VehicleVersion]
	coverages     *cascade.Level[models.Coverage]

	confirmation *models.Confirmation
}

func New(opts Options) *Wizard {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Rules.Usernames == nil {
		opts.Rules.Usernames = opts.Gateway
	}
	if opts.Rules.Passwords == nil {
		opts.Rules.Passwords = opts.Gateway
	}
	if opts.Rules.Logger == nil {
		opts.Rules.Logger = opts.Logger
	}

	log := opts.Logger.WithFields(map[string]interface{}{"component": "wizard"})
	w := &Wizard{
		step:          StepPersonalData,
		gateway:       opts.Gateway,
		recorder:      opts.Recorder,
		reporter:      apperrors.NewReporter(log),
		logger:        log,
		personal:      form.New(),
		vehicle:       form.New(),
		coverage:      form.New(),
		personalRules: rules.PersonalData(opts.Rules),
		vehicleRules:  rules.VehicleData(opts.Rules),
		coverageRules: rules.CoverageSelection(opts.Rules),
	}
	w.buildCascades()
	return w
}

func (w *Wizard) buildCascades() {
	gw := w.gateway

	w.provinces = cascade.NewLevel[models.Province](form.Province, func(ctx context.Context, _ form.Values) ([]models.Province, error) {
		return gw.Provinces(ctx)
	})
	w.cities = cascade.NewLevel[models.City](form.City, func(ctx context.Context, v form.Values) ([]models.City, error) {
		province, _ := form.Get[models.Province](v, form.Province)
		return gw.Cities(ctx, province)
	}, form.Province)
	w.personalCascade = cascade.New(w.personal, w.logger, w.provinces, w.cities)

	w.brands = cascade.NewLevel[models.VehicleBrand](form.Brand, func(ctx context.Context, _ form.Values) ([]models.VehicleBrand, error) {
		return gw.Brands(ctx)
	})
	w.years = cascade.NewLevel[models.VehicleYear](form.Year, func(ctx context.Context, _ form.Values) ([]models.VehicleYear, error) {
		return gw.Years(ctx)
	})
	w.vehicleModels = cascade.NewLevel[models.VehicleModel](form.Model, func(ctx context.Context, v form.Values) ([]models.VehicleModel, error) {
		brand, _ := form.Get[models.VehicleBrand](v, form.Brand)
		year, _ := form.Get[models.VehicleYear](v, form.Year)
		return gw.Models(ctx, brand, year)
	}, form.Brand, form.Year)
	w.versions = cascade.NewLevel[models.VehicleVersion](form.Version, func(ctx context.Context, v form.Values) ([]models.VehicleVersion, error) {
		brand, _ := form.Get[models.VehicleBrand](v, form.Brand)
		year, _ := form.Get[models.VehicleYear](v, form.Year)
		model, _ := form.Get[models.VehicleModel](v, form.Model)
		return gw.Versions(ctx, brand, year, model)
	}, form.Brand, form.Year, form.Model)
	w.vehicleCascade = cascade.New(w.vehicle, w.logger, w.brands, w.years, w.vehicleModels, w.versions)

	// Runs with w.mu held: only entered from Advance and RetryCoverages.
	w.coverages = cascade.NewLevel[models.Coverage](form.Coverage, func(ctx context.Context, _ form.Values) ([]models.Coverage, error) {
		return gw.Coverages(ctx, w.draft)
	})
	w.coverageCascade = cascade.New(w.coverage, w.logger, w.coverages)
}

// Start loads the options of the first step.
func (w *Wizard) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger.Info("Registration started", nil)
	return w.entryLoad(ctx, StepPersonalData)
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns the accumulated draft, password included.
func (w *Wizard) Draft() models.RegistrationDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Summary returns the draft for display with the password masked.
func (w *Wizard) Summary() models.RegistrationDraft {
	return w.Draft().Masked()
}

// Confirmation is set once Submit succeeded.
func (w *Wizard) Confirmation() *models.Confirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

func (w *Wizard) Personal() *form.Form { return w.personal }
func (w *Wizard) Vehicle() *form.Form  { return w.vehicle }

func (w *Wizard) Provinces() *cascade.Level[models.Province]         { return w.provinces }
func (w *Wizard) Cities() *cascade.Level[models.City]                { return w.cities }
func (w *Wizard) Brands() *cascade.Level[models.VehicleBrand]        { return w.brands }
func (w *Wizard) Years() *cascade.Level[models.VehicleYear]          { return w.years }
func (w *Wizard) VehicleModels() *cascade.Level[models.VehicleModel] { return w.vehicleModels }
func (w *Wizard) Versions() *cascade.Level[models.VehicleVersion]    { return w.versions }
func (w *Wizard) Coverages() *cascade.Level[models.Coverage]         { return w.coverages }

// SelectedCoverage is the coverage currently chosen on the coverage step.
func (w *Wizard) SelectedCoverage() (models.Coverage, bool) {
	return form.Get[models.Coverage](w.coverage.Values(), form.Coverage)
}

// Retry reloads the option list backing field with the current parent values.
func (w *Wizard) Retry(ctx context.Context, field form.FieldID) error {
	switch field {
	case form.Province, form.City:
		return w.personalCascade.Retry(ctx, field)
	case form.Brand, form.Year, form.Model, form.Version:
		return w.vehicleCascade.Retry(ctx, field)
	case form.Coverage:
		return w.RetryCoverages(ctx)
	}
	return apperrors.NewInvalidTransitionError("retry "+string(field), w.Step().String())
}

// RetryCoverages reloads the coverage options for the current draft.
func (w *Wizard) RetryCoverages(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepCoverage {
		return apperrors.NewInvalidTransitionError("retry coverages", w.step.String())
	}
	return w.entryLoad(ctx, StepCoverage)
}

// SelectCoverage chooses one of the offered coverages by its numero.
func (w *Wizard) SelectCoverage(ctx context.Context, number int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepCoverage {
		return apperrors.NewInvalidTransitionError("select coverage", w.step.String())
	}
	coverage, ok := w.coverages.Find(func(c models.Coverage) bool { return c.Number == number })
	if !ok {
		return apperrors.NewCoverageNotFoundError(number)
	}
	return w.coverage.Set(ctx, form.Coverage, coverage)
}
