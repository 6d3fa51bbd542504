package rules

import (
	"time"

	"insured-registration/internal/common/logger"
	"insured-registration/internal/form"
	"insured-registration/internal/models"
)

// Options configures the registration rule sets.
type Options struct {
	Usernames    UsernameChecker
	Passwords    PasswordChecker
	AllowedTiers []models.PasswordTier
	PhoneRegion  string
	Clock        func() time.Time
	Concurrency  int
	Logger       logger.Logger
}

func (o *Options) defaults() {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.NewNoOpLogger()
	}
}

// PersonalData returns the rules of the personal data step.
func PersonalData(opts Options) *Set {
	opts.defaults()
	name := []Rule{Required(), NotBlank(), Length(2, 15), Letters()}

	return NewSet(opts.Logger, opts.Concurrency,
		FieldRules{Field: form.IDNumber, Sync: []Rule{Required(), Digits(), Length(7, 8)}},
		FieldRules{Field: form.Name, Sync: name},
		FieldRules{Field: form.LastName, Sync: name},
		FieldRules{Field: form.Email, Sync: []Rule{Email()}},
		FieldRules{Field: form.PhoneNumber, Sync: []Rule{Phone(opts.PhoneRegion)}},
		FieldRules{Field: form.CellphoneNumber, Sync: []Rule{Phone(opts.PhoneRegion)}},
		FieldRules{Field: form.BirthDate, Sync: []Rule{Required(), Age(opts.Clock)}},
		FieldRules{Field: form.Province, Sync: []Rule{Required(), Is[models.Province]()}},
		FieldRules{Field: form.City, Sync: []Rule{Required(), Is[models.City]()}},
		FieldRules{Field: form.Address, Sync: []Rule{Required(), NotBlank()}},
		FieldRules{
			Field: form.Username,
			Sync:  []Rule{Required(), Length(3, 30)},
			Async: []AsyncRule{UsernameAvailable(opts.Usernames)},
		},
		FieldRules{
			Field: form.Password,
			Sync:  []Rule{Required(), Is[string]()},
			Async: []AsyncRule{StrongPassword(opts.Passwords, opts.AllowedTiers)},
		},
	)
}

// VehicleData returns the rules of the vehicle data step. Version is optional.
func VehicleData(opts Options) *Set {
	opts.defaults()
	return NewSet(opts.Logger, opts.Concurrency,
		FieldRules{Field: form.Brand, Sync: []Rule{Required(), Is[models.VehicleBrand]()}},
		FieldRules{Field: form.Year, Sync: []Rule{Required(), Is[models.VehicleYear]()}},
		FieldRules{Field: form.Model, Sync: []Rule{Required(), Is[models.VehicleModel]()}},
		FieldRules{Field: form.Version, Sync: []Rule{Is[models.VehicleVersion]()}},
	)
}

// CoverageSelection requires a selected coverage.
func CoverageSelection(opts Options) *Set {
	opts.defaults()
	return NewSet(opts.Logger, opts.Concurrency,
		FieldRules{Field: form.Coverage, Sync: []Rule{Required(), Is[models.Coverage]()}},
	)
}
