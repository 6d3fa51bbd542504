package wizard

import (
	"context"
	"time"

	apperrors "insured-registration/internal/common/errors"
	"insured-registration/internal/common/metrics"
	"insured-registration/internal/form"
	"insured-registration/internal/models"
	"insured-registration/internal/rules"
)

// Advance validates the current step. When it passes, the step payload is merged into a new
// draft and the wizard moves to the next step, loading that step's options. A failed entry
// load is returned after the move; the list can be reloaded with Retry.
func (w *Wizard) Advance(ctx context.Context) (rules.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	from := w.step
	var (
		values form.Values
		set    *rules.Set
	)
	switch from {
	case StepPersonalData:
		values, set = w.personal.Values(), w.personalRules
	case StepVehicleData:
		values, set = w.vehicle.Values(), w.vehicleRules
	case StepCoverage:
		values, set = w.coverage.Values(), w.coverageRules
	default:
		return rules.Result{}, apperrors.NewInvalidTransitionError("advance", from.String())
	}

	result := set.Validate(ctx, values)
	if !result.Valid() {
		w.recorder.RecordStep(ctx, from.String(), "rejected")
		w.logger.Info("Step rejected", map[string]interface{}{
			"step":   from.String(),
			"fields": result.Fields(),
		})
		return result, apperrors.NewStepInvalidError(from.String(), result.Fields())
	}

	switch from {
	case StepPersonalData:
		w.draft = w.draft.WithPersonalInformation(personalInformation(values))
	case StepVehicleData:
		w.draft = w.draft.WithVehicleInformation(vehicleInformation(values))
	case StepCoverage:
		coverage, _ := form.Get[models.Coverage](values, form.Coverage)
		w.draft = w.draft.WithCoverage(coverage)
	}

	w.moveTo(ctx, from+1, "advanced")
	if err := w.entryLoad(ctx, w.step); err != nil {
		return result, err
	}
	return result, nil
}

// Back returns to the previous step keeping every form value. It is not allowed from the
// first step or after a successful submit.
func (w *Wizard) Back(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepPersonalData || w.step == StepSuccess {
		return apperrors.NewInvalidTransitionError("go back", w.step.String())
	}
	w.moveTo(ctx, w.step-1, "back")
	return nil
}

// Submit registers the draft. It is only allowed from the resume step; on failure the wizard
// stays there and the error is returned.
func (w *Wizard) Submit(ctx context.Context) (*models.Confirmation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepResume {
		return nil, apperrors.NewInvalidTransitionError("submit", w.step.String())
	}

	start := time.Now()
	confirmation, err := w.submit(ctx)
	if err != nil {
		w.recorder.RecordSubmit(ctx, time.Since(start), "failed")
		return nil, w.reporter.Report(w.step.String(), err)
	}

	w.recorder.RecordSubmit(ctx, time.Since(start), "success")
	w.confirmation = confirmation
	w.moveTo(ctx, StepSuccess, "submitted")
	w.logger.Info("Registration submitted", map[string]interface{}{
		"confirmationId": confirmation.ID.String(),
	})
	return confirmation, nil
}

func (w *Wizard) submit(ctx context.Context) (*models.Confirmation, error) {
	if !w.draft.Complete() {
		return nil, apperrors.NewDraftIncompleteError()
	}
	if err := ValidateDraft(w.draft); err != nil {
		return nil, err
	}
	confirmation, err := w.gateway.Register(ctx, w.draft)
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			err = apperrors.NewRegistrationFailedError(err)
		}
		return nil, err
	}
	return confirmation, nil
}

func (w *Wizard) moveTo(ctx context.Context, to Step, status string) {
	from := w.step
	w.step = to
	metrics.StepTransitions.WithLabelValues(from.String(), to.String()).Inc()
	w.recorder.RecordStep(ctx, from.String(), status)
	w.logger.Debug("Step changed", map[string]interface{}{
		"from": from.String(),
		"to":   to.String(),
	})
}

// entryLoad fetches the options a step needs on entry. Called with w.mu held.
func (w *Wizard) entryLoad(ctx context.Context, step Step) error {
	var err error
	switch step {
	case StepPersonalData:
		err = w.personalCascade.Init(ctx)
	case StepVehicleData:
		err = w.vehicleCascade.Init(ctx)
	case StepCoverage:
		err = w.coverageCascade.Init(ctx)
		w.keepOfferedCoverage()
	}
	if err != nil {
		return w.reporter.Report(step.String(), err)
	}
	return nil
}

// keepOfferedCoverage drops the selection unless the reloaded options still contain it.
func (w *Wizard) keepOfferedCoverage() {
	selected, ok := form.Get[models.Coverage](w.coverage.Values(), form.Coverage)
	if !ok {
		return
	}
	offered, found := w.coverages.Find(func(c models.Coverage) bool { return c.Number == selected.Number })
	if !found {
		w.coverage.Load(form.Values{form.Coverage: nil})
		return
	}
	w.coverage.Load(form.Values{form.Coverage: offered})
}

func personalInformation(v form.Values) models.PersonalInformation {
	birthDate, _ := form.Get[time.Time](v, form.BirthDate)
	province, _ := form.Get[models.Province](v, form.Province)
	city, _ := form.Get[models.City](v, form.City)
	return models.PersonalInformation{
		IDNumber:        v.String(form.IDNumber),
		Name:            v.String(form.Name),
		LastName:        v.String(form.LastName),
		Email:           v.String(form.Email),
		PhoneNumber:     v.String(form.PhoneNumber),
		CellphoneNumber: v.String(form.CellphoneNumber),
		BirthDate:       birthDate,
		Address: models.Address{
			Province: province,
			City:     city,
			Street:   v.String(form.Address),
		},
		Username: v.String(form.Username),
		Password: v.String(form.Password),
	}
}

func vehicleInformation(v form.Values) models.VehicleInformation {
	brand, _ := form.Get[models.VehicleBrand](v, form.Brand)
	year, _ := form.Get[models.VehicleYear](v, form.Year)
	model, _ := form.Get[models.VehicleModel](v, form.Model)
	info := models.VehicleInformation{Brand: brand, Year: year, Model: model}
	if version, ok := form.Get[models.VehicleVersion](v, form.Version); ok {
		info.Version = &version
	}
	return info
}
