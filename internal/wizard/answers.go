package wizard

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"insured-registration/internal/form"
	"insured-registration/internal/models"
)

// Answers is a prepared answer set for a non-interactive run. Reference values are given by
// id or code and resolved against the loaded option lists.
type Answers struct {
	Personal PersonalAnswers `yaml:"personal"`
	Vehicle  VehicleAnswers  `yaml:"vehicle"`
	Coverage int             `yaml:"coverage"`
}

type PersonalAnswers struct {
	IDNumber        string `yaml:"idNumber"`
	Name            string `yaml:"name"`
	LastName        string `yaml:"lastName"`
	Email           string `yaml:"email"`
	PhoneNumber     string `yaml:"phoneNumber"`
	CellphoneNumber string `yaml:"cellphoneNumber"`
	BirthDate       string `yaml:"birthDate"` // 2006-01-02
	ProvinceID      string `yaml:"provinceId"`
	CityID          string `yaml:"cityId"`
	Address         string `yaml:"address"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
}

type VehicleAnswers struct {
	Brand   int  `yaml:"brand"`
	Year    int  `yaml:"year"`
	Model   int  `yaml:"model"`
	Version *int `yaml:"version"`
}

func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers %s: %w", path, err)
	}
	var a Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return &a, nil
}

// Run starts the wizard and walks every step with a, up to and including Submit.
func Run(ctx context.Context, w *Wizard, a *Answers) (*models.Confirmation, error) {
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	if err := fillPersonal(ctx, w, a.Personal); err != nil {
		return nil, err
	}
	if err := advance(ctx, w); err != nil {
		return nil, err
	}

	if err := fillVehicle(ctx, w, a.Vehicle); err != nil {
		return nil, err
	}
	if err := advance(ctx, w); err != nil {
		return nil, err
	}

	if err := w.SelectCoverage(ctx, a.Coverage); err != nil {
		return nil, err
	}
	if err := advance(ctx, w); err != nil {
		return nil, err
	}

	return w.Submit(ctx)
}

func advance(ctx context.Context, w *Wizard) error {
	step := w.Step()
	result, err := w.Advance(ctx)
	if err != nil && !result.Valid() {
		return fmt.Errorf("%s: %s: %w", step, result, err)
	}
	return err
}

func fillPersonal(ctx context.Context, w *Wizard, p PersonalAnswers) error {
	values := form.Values{
		form.IDNumber:        p.IDNumber,
		form.Name:            p.Name,
		form.LastName:        p.LastName,
		form.Email:           p.Email,
		form.PhoneNumber:     p.PhoneNumber,
		form.CellphoneNumber: p.CellphoneNumber,
		form.Address:         p.Address,
		form.Username:        p.Username,
		form.Password:        p.Password,
	}
	if p.BirthDate != "" {
		birthDate, err := time.Parse(time.DateOnly, p.BirthDate)
		if err != nil {
			return fmt.Errorf("birthDate: %w", err)
		}
		values[form.BirthDate] = birthDate
	}
	for field, value := range values {
		if err := w.Personal().Set(ctx, field, value); err != nil {
			return err
		}
	}

	province, ok := w.Provinces().Find(func(pr models.Province) bool { return pr.ID == p.ProvinceID })
	if !ok {
		return fmt.Errorf("province %q is not offered", p.ProvinceID)
	}
	if err := w.Personal().Set(ctx, form.Province, province); err != nil {
		return err
	}

	city, ok := w.Cities().Find(func(c models.City) bool { return c.ID == p.CityID })
	if !ok {
		return fmt.Errorf("city %q is not offered for province %q", p.CityID, p.ProvinceID)
	}
	return w.Personal().Set(ctx, form.City, city)
}

func fillVehicle(ctx context.Context, w *Wizard, v VehicleAnswers) error {
	brand, ok := w.Brands().Find(func(b models.VehicleBrand) bool { return b.Code == v.Brand })
	if !ok {
		return fmt.Errorf("brand %d is not offered", v.Brand)
	}
	if err := w.Vehicle().Set(ctx, form.Brand, brand); err != nil {
		return err
	}

	year, ok := w.Years().Find(func(y models.VehicleYear) bool { return int(y) == v.Year })
	if !ok {
		return fmt.Errorf("year %d is not offered", v.Year)
	}
	if err := w.Vehicle().Set(ctx, form.Year, year); err != nil {
		return err
	}

	model, ok := w.VehicleModels().Find(func(m models.VehicleModel) bool { return m.Code == v.Model })
	if !ok {
		return fmt.Errorf("model %d is not offered for brand %d and year %d", v.Model, v.Brand, v.Year)
	}
	if err := w.Vehicle().Set(ctx, form.Model, model); err != nil {
		return err
	}

	if v.Version == nil {
		return nil
	}
	version, ok := w.Versions().Find(func(ver models.VehicleVersion) bool { return ver.Code == *v.Version })
	if !ok {
		return fmt.Errorf("version %d is not offered", *v.Version)
	}
	return w.Vehicle().Set(ctx, form.Version, version)
}
